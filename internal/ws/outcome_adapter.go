package ws

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/kyc-backend/internal/service"
)

// OutcomeBroadcaster доставляет итоги верификации подписчикам хаба.
// Реализует service.OutcomeNotifier.
type OutcomeBroadcaster struct {
	hub *Hub
}

// NewOutcomeBroadcaster создаёт адаптер.
func NewOutcomeBroadcaster(hub *Hub) *OutcomeBroadcaster {
	return &OutcomeBroadcaster{hub: hub}
}

// NotifyOutcome отправляет итог верификации всем, кто ждёт этот токен.
func (b *OutcomeBroadcaster) NotifyOutcome(tokenID uuid.UUID, outcome *service.VerifyResult) {
	status := "no"
	if outcome.OK {
		status = "yes"
	}

	_ = b.hub.BroadcastToToken(tokenID, "verification_result", map[string]any{
		"status":         status,
		"message":        outcome.Message,
		"reason":         string(outcome.Reason),
		"wallet_address": outcome.WalletAddress,
	})
}
