package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/kyc-backend/internal/models"
	"github.com/ignatzorin/kyc-backend/internal/repository"
)

func TestVerifyTokenService_Issue(t *testing.T) {
	ledger := newMockTokenLedger()
	records := newMockUserRecords()

	userID := uuid.New()
	records.users[userID] = &models.User{ID: userID, GovID: "CD-67890"}

	svc := NewVerifyTokenService(ledger, records, "http://localhost:8080")

	before := time.Now()
	issued, err := svc.Issue(context.Background(), userID)
	if err != nil {
		t.Fatalf("issue вернул ошибку: %v", err)
	}

	if issued.Token.Used {
		t.Fatalf("новый токен не должен быть использованным")
	}

	// Срок жизни — ровно три минуты от момента выпуска
	ttl := issued.Token.ExpiresAt.Sub(before)
	if ttl < VerifyTokenTTL-time.Second || ttl > VerifyTokenTTL+time.Second {
		t.Fatalf("ожидался срок жизни ~%v, получили %v", VerifyTokenTTL, ttl)
	}

	// Ссылка ведёт на endpoint верификации с токеном в query
	wantSuffix := "/api/verify/?token=" + issued.Token.ID.String()
	if !strings.HasSuffix(issued.APILink, wantSuffix) {
		t.Fatalf("ссылка %q должна оканчиваться на %q", issued.APILink, wantSuffix)
	}
	if !strings.HasPrefix(issued.APILink, "http://localhost:8080") {
		t.Fatalf("ссылка должна начинаться с базового URL, получили %q", issued.APILink)
	}
}

func TestVerifyTokenService_IssueUnknownUser(t *testing.T) {
	svc := NewVerifyTokenService(newMockTokenLedger(), newMockUserRecords(), "http://localhost:8080")

	_, err := svc.Issue(context.Background(), uuid.New())
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("выпуск токена для несуществующего пользователя должен быть отклонён, получили %v", err)
	}
}

func TestVerifyTokenService_MultipleValidTokens(t *testing.T) {
	ledger := newMockTokenLedger()
	records := newMockUserRecords()

	userID := uuid.New()
	records.users[userID] = &models.User{ID: userID, GovID: "CD-67890"}

	svc := NewVerifyTokenService(ledger, records, "http://localhost:8080")
	ctx := context.Background()

	first, err := svc.Issue(ctx, userID)
	if err != nil {
		t.Fatalf("issue вернул ошибку: %v", err)
	}
	second, err := svc.Issue(ctx, userID)
	if err != nil {
		t.Fatalf("issue вернул ошибку: %v", err)
	}

	if first.Token.ID == second.Token.ID {
		t.Fatalf("токены должны иметь разные идентификаторы")
	}

	// Выпуск нового токена не инвалидирует предыдущий
	now := time.Now()
	stored, err := svc.Get(ctx, first.Token.ID)
	if err != nil {
		t.Fatalf("get вернул ошибку: %v", err)
	}
	if !stored.IsValid(now) {
		t.Fatalf("первый токен должен оставаться валидным после выпуска второго")
	}
}

func TestVerifyTokenIsValid(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name  string
		token models.VerifyToken
		want  bool
	}{
		{"свежий", models.VerifyToken{ExpiresAt: now.Add(time.Minute)}, true},
		{"просроченный", models.VerifyToken{ExpiresAt: now.Add(-time.Minute)}, false},
		{"использованный", models.VerifyToken{Used: true, ExpiresAt: now.Add(time.Minute)}, false},
		{"истекает сейчас", models.VerifyToken{ExpiresAt: now}, false},
	}

	for _, tc := range cases {
		if got := tc.token.IsValid(now); got != tc.want {
			t.Fatalf("%s: IsValid = %v, ожидалось %v", tc.name, got, tc.want)
		}
	}
}
