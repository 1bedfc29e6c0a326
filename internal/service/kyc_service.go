package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/kyc-backend/internal/face"
	"github.com/ignatzorin/kyc-backend/internal/logger"
	"github.com/ignatzorin/kyc-backend/internal/models"
	"github.com/ignatzorin/kyc-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kyc-backend/internal/repository"
)

// SimilarityThreshold — минимальная косинусная близость для принятия лица.
// Фиксированная политика, не настраивается на вызов.
const SimilarityThreshold float32 = 0.6

// VerifyTokens — операции реестра токенов, нужные движку верификации.
type VerifyTokens interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.VerifyToken, error)
	Consume(ctx context.Context, id uuid.UUID) (bool, error)
	Release(ctx context.Context, id uuid.UUID) error
}

// VerifyRecords — доступ к записям пользователей.
type VerifyRecords interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// VerifyDocuments — операции документного хранилища для верификации.
type VerifyDocuments interface {
	GetByGovID(ctx context.Context, govID string) (*models.IdentityDocument, error)
	SetWalletAddress(ctx context.Context, govID, address string) (bool, error)
}

// OutcomeNotifier получает итог верификации для доставки ожидающим клиентам
// (устройство, показавшее ссылку, узнаёт результат по WebSocket).
type OutcomeNotifier interface {
	NotifyOutcome(tokenID uuid.UUID, outcome *VerifyResult)
}

// VerifyResult — итог верификации. Отказ — штатный результат, а не ошибка:
// ошибка возвращается только при недоступности хранилищ.
type VerifyResult struct {
	OK            bool
	Reason        apperror.ErrorCode
	Message       string
	WalletAddress string
}

// KYCService — движок биометрической верификации.
type KYCService struct {
	tokens    VerifyTokens
	records   VerifyRecords
	documents VerifyDocuments
	notifier  OutcomeNotifier
}

// NewKYCService создаёт движок верификации.
func NewKYCService(tokens VerifyTokens, records VerifyRecords, documents VerifyDocuments) *KYCService {
	return &KYCService{
		tokens:    tokens,
		records:   records,
		documents: documents,
	}
}

// SetNotifier подключает доставку итогов верификации.
func (s *KYCService) SetNotifier(n OutcomeNotifier) {
	s.notifier = n
}

// Verify выполняет верификацию строго по контракту: предусловия проверяются
// по порядку, первая непройденная определяет причину отказа. Побочные
// эффекты (потребление токена + запись кошелька) происходят только при
// принятии; ни один путь отказа не мутирует состояние.
func (s *KYCService) Verify(ctx context.Context, tokenStr string, embedding []float32, wallet string) (*VerifyResult, error) {
	// 1. Все параметры обязательны.
	if strings.TrimSpace(tokenStr) == "" || len(embedding) == 0 || strings.TrimSpace(wallet) == "" {
		return reject(apperror.ErrCodeMissingParameters,
			"отсутствуют обязательные параметры: token, embedding или wallet"), nil
	}

	// 2. Токен существует. Невалидный формат и отсутствие записи для
	// клиента неразличимы.
	tokenID, err := uuid.Parse(strings.TrimSpace(tokenStr))
	if err != nil {
		return reject(apperror.ErrCodeInvalidToken, "невалидный токен"), nil
	}

	token, err := s.tokens.GetByID(ctx, tokenID)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return reject(apperror.ErrCodeInvalidToken, "невалидный токен"), nil
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStoreUnavailable, "реестр токенов недоступен")
	}

	// 3. Токен валиден на момент проверки.
	if !token.IsValid(time.Now()) {
		return s.finish(token.ID, reject(apperror.ErrCodeTokenExpiredOrUsed,
			"токен просрочен или уже использован")), nil
	}

	// 4. У владельца токена есть документ с эмбеддингом.
	user, err := s.records.GetByID(ctx, token.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return s.finish(token.ID, reject(apperror.ErrCodeNoFaceData,
			"нет данных лица для пользователя")), nil
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStoreUnavailable, "хранилище записей недоступно")
	}

	doc, err := s.documents.GetByGovID(ctx, user.GovID)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return s.finish(token.ID, reject(apperror.ErrCodeNoFaceData,
			"нет данных лица для пользователя")), nil
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStoreUnavailable, "документное хранилище недоступно")
	}
	if len(doc.Embedding) == 0 {
		return s.finish(token.ID, reject(apperror.ErrCodeNoFaceData,
			"нет данных лица для пользователя")), nil
	}

	// 5-6. Косинусная близость в float32 против порога.
	similarity, err := face.CosineSimilarity(doc.Embedding, embedding)
	if err != nil {
		return s.finish(token.ID, reject(apperror.ErrCodeInvalidEmbedding,
			fmt.Sprintf("некорректный эмбеддинг: %v", err))), nil
	}

	if similarity < SimilarityThreshold {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"token_id":   token.ID,
				"similarity": similarity,
			}).Info("kyc service: лицо не прошло проверку")
		}
		return s.finish(token.ID, reject(apperror.ErrCodeFaceMismatch,
			"верификация лица не пройдена")), nil
	}

	// 7. Принятие. Потребление токена — условный UPDATE: из двух
	// конкурентных запросов с одним токеном ровно один проходит, второй
	// получает отказ как по уже использованному токену.
	consumed, err := s.tokens.Consume(ctx, token.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStoreUnavailable, "реестр токенов недоступен")
	}
	if !consumed {
		return s.finish(token.ID, reject(apperror.ErrCodeTokenExpiredOrUsed,
			"токен просрочен или уже использован")), nil
	}

	modified, err := s.documents.SetWalletAddress(ctx, user.GovID, wallet)
	if err != nil || !modified {
		// Кошелёк не записан — токен не должен остаться потреблённым.
		if releaseErr := s.tokens.Release(ctx, token.ID); releaseErr != nil && logger.Log != nil {
			logger.Log.WithError(releaseErr).Error("kyc service: не удалось вернуть токен после сбоя записи кошелька")
		}
		if err == nil {
			err = repository.ErrDocumentNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeStoreUnavailable, "не удалось записать адрес кошелька")
	}

	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"token_id": token.ID,
			"gov_id":   user.GovID,
		}).Info("kyc service: верификация пройдена")
	}

	return s.finish(token.ID, &VerifyResult{
		OK:            true,
		Message:       "KYC верификация пройдена",
		WalletAddress: wallet,
	}), nil
}

// finish доставляет итог подписчикам токена и возвращает его вызывающему.
func (s *KYCService) finish(tokenID uuid.UUID, result *VerifyResult) *VerifyResult {
	if s.notifier != nil {
		s.notifier.NotifyOutcome(tokenID, result)
	}
	return result
}

func reject(code apperror.ErrorCode, message string) *VerifyResult {
	return &VerifyResult{
		OK:      false,
		Reason:  code,
		Message: message,
	}
}
