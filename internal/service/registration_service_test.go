package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/kyc-backend/internal/models"
	"github.com/ignatzorin/kyc-backend/internal/repository"
)

// mockRegistrationRecords реализует RegistrationRecords с уникальностью gov_id.
type mockRegistrationRecords struct {
	usersByGovID map[string]*models.User
	sessions     []*models.Session
}

func newMockRegistrationRecords() *mockRegistrationRecords {
	return &mockRegistrationRecords{usersByGovID: make(map[string]*models.User)}
}

func (m *mockRegistrationRecords) Create(ctx context.Context, user *models.User) error {
	if _, exists := m.usersByGovID[user.GovID]; exists {
		return repository.ErrDuplicateGovID
	}
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.usersByGovID[user.GovID] = user
	return nil
}

func (m *mockRegistrationRecords) SetDocumentID(ctx context.Context, userID uuid.UUID, documentID string) error {
	for _, user := range m.usersByGovID {
		if user.ID == userID {
			user.DocumentID = &documentID
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockRegistrationRecords) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions = append(m.sessions, session)
	return nil
}

// mockRegistrationDocuments реализует RegistrationDocuments.
type mockRegistrationDocuments struct {
	docs map[string]*models.IdentityDocument
}

func newMockRegistrationDocuments() *mockRegistrationDocuments {
	return &mockRegistrationDocuments{docs: make(map[string]*models.IdentityDocument)}
}

func (m *mockRegistrationDocuments) Create(ctx context.Context, doc *models.IdentityDocument) (string, error) {
	id := uuid.New().String()
	m.docs[id] = doc
	return id, nil
}

// testPhoto возвращает валидный base64 с PNG заголовком.
func testPhoto() string {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}
	return base64.StdEncoding.EncodeToString(png)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		GovID:     "AB-12345",
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Password:  "Password1",
		Photo:     testPhoto(),
		Embedding: []float32{0.1, 0.2, 0.3},
	}
}

func newRegistrationService(records *mockRegistrationRecords, documents *mockRegistrationDocuments) *RegistrationService {
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	return NewRegistrationService(records, documents, tokenManager, 5)
}

func TestRegistrationService_Register(t *testing.T) {
	records := newMockRegistrationRecords()
	documents := newMockRegistrationDocuments()
	svc := newRegistrationService(records, documents)

	res, err := svc.Register(context.Background(), validRegisterInput(), map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	if res.User.ID == uuid.Nil {
		t.Fatalf("user ID должен быть установлен")
	}

	// Запись ссылается на созданный документ
	if res.User.DocumentID == nil {
		t.Fatalf("запись должна ссылаться на документ")
	}
	doc, ok := documents.docs[*res.User.DocumentID]
	if !ok {
		t.Fatalf("документ должен существовать в хранилище")
	}
	if doc.GovID != "AB-12345" || len(doc.Embedding) != 3 {
		t.Fatalf("документ должен содержать gov_id и эмбеддинг")
	}
	if doc.WalletAddress != nil {
		t.Fatalf("кошелёк при регистрации не задаётся")
	}

	// Авто-логин: пара токенов и сессия
	if res.TokenPair == nil || res.TokenPair.AccessToken == "" {
		t.Fatalf("ожидалась пара токенов после регистрации")
	}
	if len(records.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получили %d", len(records.sessions))
	}
}

func TestRegistrationService_DuplicateGovID(t *testing.T) {
	records := newMockRegistrationRecords()
	documents := newMockRegistrationDocuments()
	svc := newRegistrationService(records, documents)

	ctx := context.Background()
	first, err := svc.Register(ctx, validRegisterInput(), nil)
	if err != nil {
		t.Fatalf("первая регистрация вернула ошибку: %v", err)
	}

	second := validRegisterInput()
	second.Email = "other@example.com"
	_, err = svc.Register(ctx, second, nil)
	if !errors.Is(err, repository.ErrDuplicateGovID) {
		t.Fatalf("повторная регистрация с тем же gov_id должна быть отклонена, получили %v", err)
	}

	// Первая запись не пострадала
	stored := records.usersByGovID["AB-12345"]
	if stored == nil || stored.ID != first.User.ID || stored.Email != "ivan@example.com" {
		t.Fatalf("первая запись должна остаться нетронутой")
	}
}

func TestRegistrationService_InvalidInput(t *testing.T) {
	svc := newRegistrationService(newMockRegistrationRecords(), newMockRegistrationDocuments())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"пустой gov_id", func(in *RegisterInput) { in.GovID = "" }},
		{"короткий gov_id", func(in *RegisterInput) { in.GovID = "AB" }},
		{"gov_id с пробелами", func(in *RegisterInput) { in.GovID = "AB 12345" }},
		{"плохой email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"слабый пароль", func(in *RegisterInput) { in.Password = "short" }},
		{"без эмбеддинга", func(in *RegisterInput) { in.Embedding = nil }},
		{"фото не base64", func(in *RegisterInput) { in.Photo = "@@@@" }},
		{"фото не изображение", func(in *RegisterInput) { in.Photo = base64.StdEncoding.EncodeToString([]byte("plain text")) }},
	}

	for _, tc := range cases {
		in := validRegisterInput()
		tc.mutate(&in)
		if _, err := svc.Register(ctx, in, nil); err == nil {
			t.Fatalf("%s: регистрация должна быть отклонена", tc.name)
		}
	}
}

func TestRegistrationService_DataURLPhoto(t *testing.T) {
	svc := newRegistrationService(newMockRegistrationRecords(), newMockRegistrationDocuments())

	in := validRegisterInput()
	in.Photo = "data:image/png;base64," + testPhoto()

	if _, err := svc.Register(context.Background(), in, nil); err != nil {
		t.Fatalf("data URL с валидным изображением должен приниматься: %v", err)
	}
}
