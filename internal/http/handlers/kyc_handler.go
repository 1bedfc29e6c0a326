package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/kyc-backend/internal/dto"
	"github.com/ignatzorin/kyc-backend/internal/http/handlers/common"
	"github.com/ignatzorin/kyc-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kyc-backend/internal/service"
)

// KYCHandler предоставляет HTTP слой верификации личности:
// регистрация, выпуск токенов, верификация и просмотр профиля.
type KYCHandler struct {
	registration *service.RegistrationService
	tokens       *service.VerifyTokenService
	kyc          *service.KYCService
	users        *service.UserService
}

// NewKYCHandler создаёт хэндлер.
func NewKYCHandler(registration *service.RegistrationService, tokens *service.VerifyTokenService, kyc *service.KYCService, users *service.UserService) *KYCHandler {
	return &KYCHandler{
		registration: registration,
		tokens:       tokens,
		kyc:          kyc,
		users:        users,
	}
}

// Register обрабатывает POST /api/register.
func (h *KYCHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta := map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}

	result, err := h.registration.Register(c.Request.Context(), service.RegisterInput{
		GovID:     req.GovID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Photo:     req.Photo,
		Embedding: req.Embedding,
	}, meta)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.Error(err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "пользователь зарегистрирован",
		UserID:  result.User.ID.String(),
		GovID:   result.User.GovID,
		Tokens:  result.TokenPair,
	})
}

// GenerateToken обрабатывает POST /api/tokens - выпуск одноразового
// токена верификации для указанного пользователя.
func (h *KYCHandler) GenerateToken(c *gin.Context) {
	var req dto.GenerateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор пользователя"})
		return
	}

	issued, err := h.tokens.Issue(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.GenerateTokenResponse{
		Token:     issued.Token.ID.String(),
		APILink:   issued.APILink,
		ExpiresAt: issued.Token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Verify обрабатывает POST /api/verify. Отказ в верификации - штатный
// ответ 200 со status "no"; ошибка возвращается только при недоступности
// хранилищ.
func (h *KYCHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, dto.VerifyResponse{
			Status:  "no",
			Message: "отсутствуют обязательные параметры",
			Reason:  string(apperror.ErrCodeMissingParameters),
		})
		return
	}

	result, err := h.kyc.Verify(c.Request.Context(), req.Token, req.Embedding, req.Wallet)
	if err != nil {
		c.Error(err)
		return
	}

	if !result.OK {
		c.JSON(http.StatusOK, dto.VerifyResponse{
			Status:  "no",
			Message: result.Message,
			Reason:  string(result.Reason),
		})
		return
	}

	c.JSON(http.StatusOK, dto.VerifyResponse{
		Status:        "yes",
		Message:       result.Message,
		WalletAddress: result.WalletAddress,
	})
}

// GetUser обрабатывает GET /api/users/:id.
func (h *KYCHandler) GetUser(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		GovID:         profile.User.GovID,
		FirstName:     profile.User.FirstName,
		LastName:      profile.User.LastName,
		Email:         profile.User.Email,
		WalletAddress: profile.Document.WalletAddress,
		Photo:         profile.Document.Photo,
	})
}
