package models

import (
	"time"

	"github.com/google/uuid"
)

// VerifyToken — одноразовый токен биометрической верификации.
// Идентификатор токена — единственный секрет, который клиент предъявляет
// обратно, поэтому он генерируется криптографически (uuid v4).
type VerifyToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
}

// IsValid вычисляет валидность токена на момент now.
// Валидность нигде не кэшируется: использованный токен остаётся
// использованным, а неиспользованный молча протухает после expires_at
// без фонового процесса очистки.
func (t *VerifyToken) IsValid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
