package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/core/services"
	"github.com/lithictech/suma-sub001/internal/eligibility"
	"github.com/lithictech/suma-sub001/internal/repositories/memory"
	"github.com/lithictech/suma-sub001/internal/strategies"
	"github.com/lithictech/suma-sub001/internal/utils/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triggersYAML = `
triggers:
  - label: food-match-2024
    active_from: 2024-01-01T00:00:00Z
    active_until: 2025-01-01T00:00:00Z
    match_multiplier: "1.5"
    maximum_cumulative_subsidy_cents: 5000
    unmatched_amount_cents: 200
    unmatched_policy: threshold
    receiving_ledger_label: food
    memo:
      en: Food subsidy
      es: Subsidio de comida
    pool:
      vendor_id: food-bank
      currency: usd
      label: subsidy-pool
  - label: platform-credit
    active_from: 2024-01-01T00:00:00Z
    act_as_credit: true
    credit_amount_cents: 1000
    receiving_ledger_label: cash
    pool:
      platform: true
      currency: USD
      label: cash
`

func newContainer() *portssvc.ServiceContainer {
	return services.NewServiceContainer(
		memory.NewStore(),
		strategies.NewDefaultRegistry(nil, nil),
		eligibility.AllowAll{},
		services.ContainerConfig{Currencies: domain.NewCurrencySet("USD")},
	)
}

func TestParseTriggers(t *testing.T) {
	defs, err := seed.ParseTriggers([]byte(triggersYAML))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "food-match-2024", defs[0].Label)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), defs[0].ActiveFrom.UTC())
	require.NotNil(t, defs[0].ActiveUntil)
	assert.Equal(t, "1.5", defs[0].MatchMultiplier)
	assert.Equal(t, "food-bank", defs[0].Pool.VendorID)
	assert.Equal(t, "Subsidio de comida", defs[0].Memo.Es)

	assert.Nil(t, defs[1].ActiveUntil)
	assert.True(t, defs[1].Pool.Platform)
}

func TestParseTriggers_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", "triggers: [oops"},
		{"missing label", "triggers:\n  - receiving_ledger_label: food\n"},
		{"duplicate label", "triggers:\n  - label: a\n  - label: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.ParseTriggers([]byte(tt.doc))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestLoadTriggersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(triggersYAML), 0o600))

	defs, err := seed.LoadTriggersFile(path)
	require.NoError(t, err)
	assert.Len(t, defs, 2)

	_, err = seed.LoadTriggersFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Apply(t *testing.T) {
	ctx := context.Background()
	svc := newContainer()
	loader := seed.NewLoader(svc.Ledger, svc.Trigger)

	defs, err := seed.ParseTriggers([]byte(triggersYAML))
	require.NoError(t, err)

	created, err := loader.Apply(ctx, defs)
	require.NoError(t, err)
	require.Len(t, created, 2)

	food, err := svc.Trigger.GetTriggerByLabel(ctx, "food-match-2024")
	require.NoError(t, err)
	assert.Equal(t, "1.5", food.MatchMultiplier.String())
	assert.Equal(t, domain.UnmatchedThreshold, food.UnmatchedPolicy)
	assert.Equal(t, int64(5000), food.MaximumCumulativeSubsidyCents)

	vendor, err := svc.Ledger.EnsureAccount(ctx, domain.VendorOwner("food-bank"))
	require.NoError(t, err)
	pool, err := svc.Ledger.GetLedger(ctx, food.OriginatingLedgerID)
	require.NoError(t, err)
	assert.Equal(t, vendor.AccountID, pool.AccountID)
	assert.Equal(t, "subsidy-pool", pool.Label)
	assert.Equal(t, "USD", pool.Currency)

	credit, err := svc.Trigger.GetTriggerByLabel(ctx, "platform-credit")
	require.NoError(t, err)
	assert.True(t, credit.ActAsCredit)
	assert.Equal(t, domain.UnmatchedExclude, credit.UnmatchedPolicy)

	again, err := loader.Apply(ctx, defs)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestLoader_ApplyInvalidPool(t *testing.T) {
	ctx := context.Background()
	svc := newContainer()
	loader := seed.NewLoader(svc.Ledger, svc.Trigger)

	defs := []seed.TriggerDefinition{{
		Label:                "broken",
		ActiveFrom:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ReceivingLedgerLabel: "food",
		Pool:                 seed.Pool{VendorID: "v1", Platform: true, Currency: "USD", Label: "pool"},
	}}
	_, err := loader.Apply(ctx, defs)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	defs[0].Pool = seed.Pool{VendorID: "v1", Currency: "USD", Label: "pool"}
	defs[0].MatchMultiplier = "lots"
	_, err = loader.Apply(ctx, defs)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Trigger.GetTriggerByLabel(ctx, "broken")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
