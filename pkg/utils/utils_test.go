package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIDR(t *testing.T) {
	cases := map[int64]string{
		0:       "Rp 0",
		800:     "Rp 800",
		8000:    "Rp 8.000",
		43050:   "Rp 43.050",
		1250000: "Rp 1.250.000",
		1e9:     "Rp 1.000.000.000",
		-5000:   "-Rp 5.000",
	}

	for amount, expected := range cases {
		assert.Equal(t, expected, FormatIDR(amount))
	}
}

func TestGenerateOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-Z]{6}$`)
	seen := make(map[string]struct{})

	for i := 0; i < 200; i++ {
		id, err := GenerateOrderID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
		seen[id] = struct{}{}
	}

	assert.Greater(t, len(seen), 190)
}

func TestSessionToken(t *testing.T) {
	token, err := CreateSessionToken("session-1", time.Minute, "secret")
	require.NoError(t, err)

	id, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)

	expired, err := CreateSessionToken("session-2", -time.Minute, "secret")
	require.NoError(t, err)
	_, err = ParseSessionToken(expired, "secret")
	assert.Error(t, err)
}

func TestConvertUnixMilliToHumanReadableFormat(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 3, 4, 0, 0, time.UTC).UnixMilli()

	assert.Equal(t, "05 March 2024, 10:04 WIB", ConvertUnixMilliToHumanReadableFormat(ts))
}
