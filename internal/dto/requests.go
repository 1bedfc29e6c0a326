package dto

// RegisterRequest — тело POST /api/register.
type RegisterRequest struct {
	GovID     string    `json:"gov_id" binding:"required"`
	FirstName string    `json:"first_name" binding:"required"`
	LastName  string    `json:"last_name" binding:"required"`
	Email     string    `json:"email" binding:"required"`
	Password  string    `json:"password" binding:"required"`
	Photo     string    `json:"photo" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// GenerateTokenRequest — тело POST /api/tokens.
type GenerateTokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// VerifyRequest — тело POST /api/verify.
type VerifyRequest struct {
	Token     string    `json:"token"`
	Embedding []float32 `json:"embedding"`
	Wallet    string    `json:"wallet"`
}
