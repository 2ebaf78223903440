package dto

import "github.com/lithictech/suma-sub001/internal/core/domain"

// WebhookEvent is the body a payment processor posts when a transaction changes on its side.
type WebhookEvent struct {
	EventType   string `json:"eventType" binding:"required"`
	ExternalRef string `json:"externalRef"`
}

// SettlementResponse is returned by the webhook endpoints.
type SettlementResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	ExternalRef string `json:"externalRef,omitempty"`
	Replayed    bool   `json:"replayed"`
}

// ToSettlementResponse converts a funding or payout transaction to its webhook response.
func ToSettlementResponse(s domain.Settleable, replayed bool) SettlementResponse {
	base := s.Base()
	return SettlementResponse{
		ID:          base.ID,
		Kind:        string(s.Ref().Kind),
		Status:      string(base.Status),
		ExternalRef: base.ExternalRef,
		Replayed:    replayed,
	}
}
