package lifecycle_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"campusdesk/backend/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ref := lifecycle.NewReferenceNumber(now)

	parts := strings.Split(ref, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "LDCU", parts[0])

	ts, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), ts)

	assert.Len(t, parts[2], 4)
	assert.Equal(t, ref, strings.ToUpper(ref))
}

func TestNewReferenceNumberSuffixCharset(t *testing.T) {
	// The suffix avoids the lookalikes 0, O, 1 and I.
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	for i := 0; i < 50; i++ {
		ref := lifecycle.NewReferenceNumber(time.Now())
		suffix := ref[strings.LastIndex(ref, "-")+1:]
		for _, r := range suffix {
			assert.Contains(t, charset, string(r))
		}
	}
}

func TestNewReferenceNumberVariesWithinMillisecond(t *testing.T) {
	// Same timestamp, different random suffixes.
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[lifecycle.NewReferenceNumber(now)] = true
	}
	assert.GreaterOrEqual(t, len(seen), 95)
}
