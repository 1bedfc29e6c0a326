package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/kyc-backend/internal/models"
)

// VerifyTokenTTL — фиксированное время жизни токена верификации.
// Не конфигурируется: три минуты — политика, а не настройка.
const VerifyTokenTTL = 3 * time.Minute

// TokenLedger описывает реестр токенов для сервиса выпуска.
type TokenLedger interface {
	Create(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (*models.VerifyToken, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.VerifyToken, error)
}

// UserRecords — доступ к записям пользователей для проверки существования.
type UserRecords interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// VerifyTokenService выпускает одноразовые токены верификации.
// Выпуск нового токена не инвалидирует ранее выданные: у пользователя
// может одновременно существовать несколько валидных токенов.
type VerifyTokenService struct {
	tokens  TokenLedger
	users   UserRecords
	baseURL string
}

// IssuedToken — результат выпуска токена вместе с готовой ссылкой верификации.
type IssuedToken struct {
	Token   *models.VerifyToken
	APILink string
}

// NewVerifyTokenService создаёт сервис выпуска токенов.
func NewVerifyTokenService(tokens TokenLedger, users UserRecords, baseURL string) *VerifyTokenService {
	return &VerifyTokenService{
		tokens:  tokens,
		users:   users,
		baseURL: baseURL,
	}
}

// Issue выпускает токен для пользователя и составляет ссылку верификации.
func (s *VerifyTokenService) Issue(ctx context.Context, userID uuid.UUID) (*IssuedToken, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Create(ctx, userID, time.Now().Add(VerifyTokenTTL))
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:   token,
		APILink: fmt.Sprintf("%s/api/verify/?token=%s", s.baseURL, token.ID),
	}, nil
}

// Get возвращает токен по идентификатору.
func (s *VerifyTokenService) Get(ctx context.Context, id uuid.UUID) (*models.VerifyToken, error) {
	return s.tokens.GetByID(ctx, id)
}
