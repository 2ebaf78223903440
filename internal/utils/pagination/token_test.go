package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	applyAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(applyAt, "bt_123")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, applyAt, decodedAt)
	assert.Equal(t, "bt_123", decodedID)

	// Non-UTC times come back normalized to the same instant.
	local := time.Date(2023, 5, 15, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))
	decodedLocal, _, err := DecodeToken(EncodeToken(local, "bt_1"))
	assert.NoError(t, err)
	assert.True(t, local.Equal(decodedLocal))

	// Ids containing the separator survive.
	_, id, err := DecodeToken(EncodeToken(applyAt, "a|b"))
	assert.NoError(t, err)
	assert.Equal(t, "a|b", id)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "base64 decode")

	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("notadate|bt_1")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "apply_at parse")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, 500, NormalizeLimit(10000))
}
