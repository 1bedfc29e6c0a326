package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/kyc-backend/internal/models"
)

// ProfileRecords — доступ к записям пользователей для сборки профиля.
type ProfileRecords interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProfileDocuments — доступ к документам для сборки профиля.
type ProfileDocuments interface {
	GetByGovID(ctx context.Context, govID string) (*models.IdentityDocument, error)
}

// UserService собирает профиль пользователя из двух хранилищ:
// учётная запись в PostgreSQL, документ с фото и кошельком в MongoDB.
type UserService struct {
	records   ProfileRecords
	documents ProfileDocuments
}

// Profile — объединённый профиль пользователя.
type Profile struct {
	User     *models.User
	Document *models.IdentityDocument
}

// NewUserService создаёт сервис профилей.
func NewUserService(records ProfileRecords, documents ProfileDocuments) *UserService {
	return &UserService{
		records:   records,
		documents: documents,
	}
}

// GetProfile возвращает профиль по ID записи.
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	user, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}

	doc, err := s.documents.GetByGovID(ctx, user.GovID)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}

	return &Profile{User: user, Document: doc}, nil
}
