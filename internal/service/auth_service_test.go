package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/kyc-backend/internal/models"
	"github.com/ignatzorin/kyc-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	sessions     map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) addUser(email, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		GovID:        "EF-00001",
		Email:        email,
		PasswordHash: string(hash),
	}
	m.usersByEmail[email] = user
	m.usersByID[user.ID] = user
	return user
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockAuthRepository()
	repo.addUser("user@example.com", "Password1")

	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	svc := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	res, err := svc.Login(ctx, LoginInput{
		Email:    "user@example.com",
		Password: "Password1",
	}, map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}

	if res.TokenPair.AccessToken == "" || res.TokenPair.RefreshToken == "" {
		t.Fatalf("ожидалась пара токенов")
	}

	if len(repo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получили %d", len(repo.sessions))
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newMockAuthRepository()
	repo.addUser("user@example.com", "Password1")

	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	svc := NewAuthService(repo, tokenManager)

	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "wrong",
	}, nil); err == nil {
		t.Fatalf("логин с неверным паролем должен быть отклонён")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newMockAuthRepository()
	user := repo.addUser("user@example.com", "Password1")

	tokenManager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	svc := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	res, err := svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "Password1"}, nil)
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}

	newPair, err := svc.Refresh(ctx, res.TokenPair.RefreshToken, nil)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}
	if newPair.AccessToken == "" {
		t.Fatalf("ожидался новый access токен")
	}

	// Старая сессия заменена новой
	if _, ok := repo.sessions[res.TokenPair.RefreshToken]; ok && res.TokenPair.RefreshToken != newPair.RefreshToken {
		t.Fatalf("старая сессия должна быть удалена")
	}
	if _, err := repo.GetByID(ctx, user.ID); err != nil {
		t.Fatalf("пользователь должен существовать: %v", err)
	}
}
