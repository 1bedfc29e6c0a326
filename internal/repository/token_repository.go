package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/kyc-backend/internal/models"
)

var ErrTokenNotFound = errors.New("verification token not found")

// TokenRepository — реестр одноразовых токенов верификации.
// Токены никогда не удаляются: истечение срока — вычисляемый предикат,
// а не операция очистки.
type TokenRepository struct {
	db *sqlx.DB
}

// NewTokenRepository создаёт экземпляр репозитория.
func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create выпускает новый токен для пользователя.
func (r *TokenRepository) Create(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (*models.VerifyToken, error) {
	var token models.VerifyToken
	err := r.db.GetContext(ctx, &token, `
		INSERT INTO verify_tokens (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, created_at, expires_at, used
	`, uuid.New(), userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("token repository: create %w", err)
	}
	return &token, nil
}

// GetByID возвращает токен по идентификатору.
func (r *TokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VerifyToken, error) {
	var token models.VerifyToken
	err := r.db.GetContext(ctx, &token, `
		SELECT id, user_id, created_at, expires_at, used
		FROM verify_tokens
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("token repository: get by id %w", err)
	}
	return &token, nil
}

// Consume атомарно помечает токен использованным, но только если он сейчас
// валиден. Условие в самом UPDATE — это и есть гарантия "не более одного
// успешного потребления": из двух конкурентных запросов с одним токеном
// ровно один увидит true, второй — false.
func (r *TokenRepository) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE verify_tokens
		SET used = TRUE
		WHERE id = $1 AND used = FALSE AND expires_at > NOW()
	`, id)
	if err != nil {
		return false, fmt.Errorf("token repository: consume %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("token repository: consume rows affected %w", err)
	}

	return rowsAffected == 1, nil
}

// Release возвращает токен в неиспользованное состояние. Применяется только
// внутри движка верификации: если после Consume проверка лица не прошла,
// отклонённый запрос не должен оставить токен потреблённым.
func (r *TokenRepository) Release(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE verify_tokens SET used = FALSE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("token repository: release %w", err)
	}
	return nil
}
