package eligibility_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/eligibility"
)

func TestAllowAll(t *testing.T) {
	ok, err := eligibility.AllowAll{}.IsEligible(context.Background(), "member-1", domain.PaymentTrigger{Label: "x"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	s := eligibility.NewStatic()
	food := domain.PaymentTrigger{Label: "food-match"}
	transit := domain.PaymentTrigger{Label: "transit-match"}

	ok, err := s.IsEligible(ctx, "member-1", food)
	require.NoError(t, err)
	assert.False(t, ok)

	s.Grant("member-1", "food-match")
	ok, _ = s.IsEligible(ctx, "member-1", food)
	assert.True(t, ok)
	ok, _ = s.IsEligible(ctx, "member-1", transit)
	assert.False(t, ok)

	s.Grant("member-2", "")
	ok, _ = s.IsEligible(ctx, "member-2", transit)
	assert.True(t, ok)

	s.Revoke("member-1", "food-match")
	ok, _ = s.IsEligible(ctx, "member-1", food)
	assert.False(t, ok)
}
