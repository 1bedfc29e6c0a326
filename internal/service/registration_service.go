package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/kyc-backend/internal/logger"
	"github.com/ignatzorin/kyc-backend/internal/models"
	"github.com/ignatzorin/kyc-backend/internal/validation"
)

// RegistrationRecords описывает зависимости регистрации от реляционного хранилища.
type RegistrationRecords interface {
	Create(ctx context.Context, user *models.User) error
	SetDocumentID(ctx context.Context, userID uuid.UUID, documentID string) error
	CreateSession(ctx context.Context, session *models.Session) error
}

// RegistrationDocuments описывает зависимость регистрации от документного хранилища.
type RegistrationDocuments interface {
	Create(ctx context.Context, doc *models.IdentityDocument) (string, error)
}

// RegistrationService создаёт идентификационную запись и документ пользователя.
type RegistrationService struct {
	records       RegistrationRecords
	documents     RegistrationDocuments
	tokenManager  *TokenManager
	maxPhotoBytes int64
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	GovID     string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Photo     string
	Embedding []float32
}

// RegisterResult возвращает итог регистрации.
type RegisterResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// NewRegistrationService создаёт сервис регистрации.
func NewRegistrationService(records RegistrationRecords, documents RegistrationDocuments, tokenManager *TokenManager, maxPhotoMB int64) *RegistrationService {
	return &RegistrationService{
		records:       records,
		documents:     documents,
		tokenManager:  tokenManager,
		maxPhotoBytes: maxPhotoMB * 1024 * 1024,
	}
}

// Register создаёт запись в PostgreSQL и документ в MongoDB, привязывает
// документ к записи и сразу авторизует пользователя.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput, meta map[string]string) (*RegisterResult, error) {
	if err := validation.ValidateGovID(in.GovID); err != nil {
		return nil, fmt.Errorf("registration service: %w", err)
	}
	if err := validation.ValidateName("имя", in.FirstName); err != nil {
		return nil, fmt.Errorf("registration service: %w", err)
	}
	if err := validation.ValidateName("фамилия", in.LastName); err != nil {
		return nil, fmt.Errorf("registration service: %w", err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("registration service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("registration service: %w", err)
	}
	if len(in.Embedding) == 0 {
		return nil, fmt.Errorf("registration service: эмбеддинг лица обязателен")
	}
	if len(in.Embedding) > validation.MaxEmbeddingLength {
		return nil, fmt.Errorf("registration service: эмбеддинг длиннее %d значений", validation.MaxEmbeddingLength)
	}
	if err := s.validatePhoto(in.Photo); err != nil {
		return nil, fmt.Errorf("registration service: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("registration service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		GovID:        strings.TrimSpace(in.GovID),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(passHash),
	}

	if err := s.records.Create(ctx, user); err != nil {
		return nil, err
	}

	doc := &models.IdentityDocument{
		GovID:     user.GovID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Photo:     in.Photo,
		Embedding: in.Embedding,
	}

	documentID, err := s.documents.Create(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := s.records.SetDocumentID(ctx, user.ID, documentID); err != nil {
		return nil, err
	}
	user.DocumentID = &documentID

	// Авто-логин после регистрации
	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	if meta != nil {
		if ua, ok := meta["user_agent"]; ok {
			session.UserAgent = &ua
		}
		if ip, ok := meta["ip"]; ok {
			session.IPAddress = &ip
		}
	}

	if err := s.records.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"gov_id":  user.GovID,
		}).Info("registration service: пользователь зарегистрирован")
	}

	return &RegisterResult{
		User:      user,
		TokenPair: tokenPair,
	}, nil
}

// validatePhoto проверяет, что фото — валидный base64 с изображением внутри.
func (s *RegistrationService) validatePhoto(photo string) error {
	if strings.TrimSpace(photo) == "" {
		return fmt.Errorf("фото обязательно")
	}

	// Фронтенд может прислать data URL, отрезаем префикс
	if idx := strings.Index(photo, ","); idx != -1 && strings.HasPrefix(photo, "data:") {
		photo = photo[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(photo)
	if err != nil {
		return fmt.Errorf("фото должно быть в base64: %w", err)
	}

	if int64(len(raw)) > s.maxPhotoBytes {
		return fmt.Errorf("размер фото превышает лимит %d байт", s.maxPhotoBytes)
	}

	if !filetype.IsImage(raw) {
		return fmt.Errorf("фото должно быть изображением")
	}

	return nil
}
