package certgen

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberPattern = regexp.MustCompile(`^CERT-[0-9A-Z]+-[0-9A-Z]{6}$`)

func TestNumberFormat(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	gen := NewNumberGenerator(func() time.Time { return now })

	n, err := gen()
	require.NoError(t, err)
	assert.Regexp(t, numberPattern, n)

	parts := strings.Split(n, "-")
	require.Len(t, parts, 3)
	ms, err := strconv.ParseInt(parts[1], 36, 64)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), ms)
}

func TestNumbersDiffer(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 200; i++ {
		n, err := NewCertificateNumber()
		require.NoError(t, err)
		_, dup := seen[n]
		assert.False(t, dup, "duplicate number %s", n)
		seen[n] = struct{}{}
	}
}
