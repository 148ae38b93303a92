package certgen

import (
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	NumberPrefix       = "CERT"
	numberSuffixLength = 6
	base36Alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NumberGenerator mints certificate numbers.
type NumberGenerator func() (string, error)

// NewNumberGenerator returns a generator of CERT-<base36 unix millis>-<6 random base36 chars>.
// Uniqueness is probabilistic, the database unique index is the backstop.
func NewNumberGenerator(now func() time.Time) NumberGenerator {
	if now == nil {
		now = time.Now
	}

	return func() (string, error) {
		suffix, err := gonanoid.Generate(base36Alphabet, numberSuffixLength)
		if err != nil {
			return "", err
		}

		ts := strings.ToUpper(strconv.FormatInt(now().UnixMilli(), 36))
		return NumberPrefix + "-" + ts + "-" + suffix, nil
	}
}

// NewCertificateNumber mints a number using the wall clock.
func NewCertificateNumber() (string, error) {
	return NewNumberGenerator(time.Now)()
}
