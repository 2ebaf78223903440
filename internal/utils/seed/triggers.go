// Package seed loads payment trigger definitions from YAML and creates the
// ones that do not exist yet.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/dto"
	"github.com/lithictech/suma-sub001/internal/middleware"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Pool names the ledger a trigger's subsidy is drawn from.
// Exactly one of LedgerID, VendorID or Platform is set.
type Pool struct {
	LedgerID string `yaml:"ledger_id"`
	VendorID string `yaml:"vendor_id"`
	Platform bool   `yaml:"platform"`
	Currency string `yaml:"currency"`
	Label    string `yaml:"label"`
}

// Memo is the localized trigger memo.
type Memo struct {
	En string `yaml:"en"`
	Es string `yaml:"es"`
}

// TriggerDefinition is one entry of the triggers file.
type TriggerDefinition struct {
	Label                         string     `yaml:"label"`
	ActiveFrom                    time.Time  `yaml:"active_from"`
	ActiveUntil                   *time.Time `yaml:"active_until"`
	MatchMultiplier               string     `yaml:"match_multiplier"`
	MaximumCumulativeSubsidyCents int64      `yaml:"maximum_cumulative_subsidy_cents"`
	UnmatchedAmountCents          int64      `yaml:"unmatched_amount_cents"`
	UnmatchedPolicy               string     `yaml:"unmatched_policy"`
	ActAsCredit                   bool       `yaml:"act_as_credit"`
	CreditAmountCents             int64      `yaml:"credit_amount_cents"`
	ReceivingLedgerLabel          string     `yaml:"receiving_ledger_label"`
	Memo                          Memo       `yaml:"memo"`
	Pool                          Pool       `yaml:"pool"`
}

// File is the top-level document.
type File struct {
	Triggers []TriggerDefinition `yaml:"triggers"`
}

// ParseTriggers decodes a triggers document.
func ParseTriggers(data []byte) ([]TriggerDefinition, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: triggers file: %v", apperrors.ErrValidation, err)
	}
	seen := make(map[string]bool, len(f.Triggers))
	for i, def := range f.Triggers {
		if strings.TrimSpace(def.Label) == "" {
			return nil, fmt.Errorf("%w: trigger #%d has no label", apperrors.ErrValidation, i+1)
		}
		if seen[def.Label] {
			return nil, fmt.Errorf("%w: trigger %q is defined twice", apperrors.ErrValidation, def.Label)
		}
		seen[def.Label] = true
	}
	return f.Triggers, nil
}

// LoadTriggersFile reads and parses the file at path.
func LoadTriggersFile(path string) ([]TriggerDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read triggers file %s: %w", path, err)
	}
	return ParseTriggers(data)
}

// Loader creates seeded triggers through the service layer.
type Loader struct {
	ledgers  portssvc.LedgerSvc
	triggers portssvc.TriggerSvc
}

func NewLoader(ledgers portssvc.LedgerSvc, triggers portssvc.TriggerSvc) *Loader {
	return &Loader{ledgers: ledgers, triggers: triggers}
}

// Apply creates every definition whose label is not taken yet and returns
// the triggers it created. Existing triggers are left untouched.
func (l *Loader) Apply(ctx context.Context, defs []TriggerDefinition) ([]domain.PaymentTrigger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	var created []domain.PaymentTrigger
	for _, def := range defs {
		_, err := l.triggers.GetTriggerByLabel(ctx, def.Label)
		if err == nil {
			logger.Debug("Seed trigger already exists", slog.String("label", def.Label))
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return created, fmt.Errorf("failed to look up trigger %q: %w", def.Label, err)
		}

		req, err := l.request(ctx, def)
		if err != nil {
			return created, fmt.Errorf("trigger %q: %w", def.Label, err)
		}
		trigger, err := l.triggers.CreateTrigger(ctx, req)
		if errors.Is(err, apperrors.ErrDuplicate) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to create trigger %q: %w", def.Label, err)
		}
		created = append(created, *trigger)
	}
	logger.Info("Seeded payment triggers", slog.Int("defined", len(defs)), slog.Int("created", len(created)))
	return created, nil
}

func (l *Loader) request(ctx context.Context, def TriggerDefinition) (dto.CreateTriggerRequest, error) {
	multiplier := decimal.NewFromInt(1)
	if def.MatchMultiplier != "" {
		m, err := decimal.NewFromString(def.MatchMultiplier)
		if err != nil {
			return dto.CreateTriggerRequest{}, fmt.Errorf("%w: match_multiplier %q", apperrors.ErrValidation, def.MatchMultiplier)
		}
		multiplier = m
	}
	ledgerID, err := l.resolvePool(ctx, def.Pool)
	if err != nil {
		return dto.CreateTriggerRequest{}, err
	}
	req := dto.CreateTriggerRequest{
		Label:                         def.Label,
		ActiveFrom:                    def.ActiveFrom,
		MatchMultiplier:               multiplier,
		MaximumCumulativeSubsidyCents: def.MaximumCumulativeSubsidyCents,
		UnmatchedAmountCents:          def.UnmatchedAmountCents,
		UnmatchedPolicy:               domain.UnmatchedPolicy(def.UnmatchedPolicy),
		ActAsCredit:                   def.ActAsCredit,
		CreditAmountCents:             def.CreditAmountCents,
		OriginatingLedgerID:           ledgerID,
		ReceivingLedgerLabel:          def.ReceivingLedgerLabel,
		Memo:                          domain.LocalizedText{En: def.Memo.En, Es: def.Memo.Es},
	}
	if def.ActiveUntil != nil {
		req.ActiveUntil = *def.ActiveUntil
	}
	return req, nil
}

func (l *Loader) resolvePool(ctx context.Context, pool Pool) (string, error) {
	var owner domain.AccountOwner
	switch {
	case pool.LedgerID != "":
		return pool.LedgerID, nil
	case pool.VendorID != "" && !pool.Platform:
		owner = domain.VendorOwner(pool.VendorID)
	case pool.Platform && pool.VendorID == "":
		owner = domain.PlatformOwner()
	default:
		return "", fmt.Errorf("%w: pool needs exactly one of ledger_id, vendor_id or platform", apperrors.ErrValidation)
	}
	if pool.Currency == "" || pool.Label == "" {
		return "", fmt.Errorf("%w: pool needs currency and label", apperrors.ErrValidation)
	}
	account, err := l.ledgers.EnsureAccount(ctx, owner)
	if err != nil {
		return "", err
	}
	ledger, err := l.ledgers.EnsureLedger(ctx, account.AccountID, strings.ToUpper(pool.Currency), pool.Label)
	if err != nil {
		return "", err
	}
	return ledger.LedgerID, nil
}
