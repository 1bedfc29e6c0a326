package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает минимальную идентификационную запись в PostgreSQL.
// Полный документ (фото, эмбеддинг, кошелёк) хранится в MongoDB,
// DocumentID содержит ссылку на него.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	GovID        string    `db:"gov_id" json:"gov_id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DocumentID   *string   `db:"document_id" json:"document_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
