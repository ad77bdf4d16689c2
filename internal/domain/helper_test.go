package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecimal compares numerically so 10700 and 10700.00 are the same amount
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

// assertClose compares within tolerance, for figures that go through the amortization formula
func assertClose(t *testing.T, want string, got decimal.Decimal, tolerance string) {
	t.Helper()
	diff := d(want).Sub(got).Abs()
	assert.Truef(t, diff.LessThanOrEqual(d(tolerance)), "expected %s ± %s, got %s", want, tolerance, got.String())
}
