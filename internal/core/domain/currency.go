package domain

import (
	"fmt"
	"strings"
)

// CurrencySet is the allow-list of currencies ledgers may be opened in.
type CurrencySet map[string]struct{}

// NewCurrencySet builds a set from ISO codes, ignoring blanks.
func NewCurrencySet(codes ...string) CurrencySet {
	set := make(CurrencySet, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// Check returns ErrUnsupportedCurrency for codes outside the set.
// An empty set allows any three letter code.
func (s CurrencySet) Check(code string) error {
	if len(code) != 3 || strings.ToUpper(code) != code {
		return fmt.Errorf("%w: %q is not an ISO 4217 code", ErrUnsupportedCurrency, code)
	}
	if len(s) == 0 {
		return nil
	}
	if _, ok := s[code]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return nil
}
