package dto

import "github.com/lithictech/suma-sub001/internal/core/domain"

// CreateChargeRequest records what a member was charged for an order or trip.
type CreateChargeRequest struct {
	MemberID             string       `json:"memberID" validate:"required"`
	CommerceOrderID      *string      `json:"commerceOrderID,omitempty"`
	MobilityTripID       *string      `json:"mobilityTripID,omitempty"`
	UndiscountedSubtotal domain.Money `json:"undiscountedSubtotal"`
}

// AttributeChargeRequest links book transactions and an off-platform amount to a charge.
type AttributeChargeRequest struct {
	BookTransactionIDs []string     `json:"bookTransactionIDs" validate:"dive,required"`
	OffPlatformAmount  domain.Money `json:"offPlatformAmount"`
}
