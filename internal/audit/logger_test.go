package audit

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_WritesMaskedAuditLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Record("account.login", map[string]string{
		"account_id": "u1",
		"email":      "alice@example.com",
		"result":     "success",
		"empty":      "",
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, true, got["audit"])
	assert.Equal(t, "account.login", got["action"])
	assert.Equal(t, "u1", got["account_id"])
	assert.Equal(t, "al***@example.com", got["email"])
	assert.Equal(t, "info", got["level"])
	assert.NotContains(t, got, "empty")
}

func TestRecord_ErrorsLogAtWarn(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Record("account.login", map[string]string{"result": "error", "error_code": "invalid_credentials"})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "invalid_credentials", got["error_code"])
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"alice@example.com": "al***@example.com",
		"a@example.com":     "a***@example.com",
		"abc":               "***",
		"noatsign":          "***",
	}
	for in, want := range cases {
		assert.Equal(t, want, maskEmail(in), in)
	}
}
