package dto

// ErrorResponse — стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterResponse — ответ на успешную регистрацию.
type RegisterResponse struct {
	Message string      `json:"message"`
	UserID  string      `json:"user_id"`
	GovID   string      `json:"gov_id"`
	Tokens  interface{} `json:"tokens"`
}

// GenerateTokenResponse — ответ на выпуск токена верификации.
// Время — в ISO-8601.
type GenerateTokenResponse struct {
	Token     string `json:"token"`
	APILink   string `json:"api_link"`
	ExpiresAt string `json:"expires_at"`
}

// VerifyResponse — итог верификации. status всегда "yes" или "no";
// отказ — штатный ответ 200, а не ошибка.
type VerifyResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Reason        string `json:"reason,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

// UserResponse — ответ GET /api/users/:id.
type UserResponse struct {
	GovID         string  `json:"gov_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	WalletAddress *string `json:"wallet_address"`
	Photo         string  `json:"photo"`
}
