package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
)

const timeFormat = time.RFC3339Nano

// DefaultLimit is used when the caller does not ask for a page size.
const DefaultLimit = 50

// EncodeToken creates a base64 encoded cursor from the last row's apply time and id.
func EncodeToken(applyAt time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", applyAt.UTC().Format(timeFormat), id)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a cursor produced by EncodeToken.
func DecodeToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}
	applyAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid pagination token format (apply_at parse): %v", apperrors.ErrValidation, err)
	}
	return applyAt, parts[1], nil
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, 500)
}
