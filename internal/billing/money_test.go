package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyRounding(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 1235.0, RoundPeso(1234.5))
	assert.Equal(t, 21000.0, IVA(100000, true))
	assert.Zero(t, IVA(100000, false))
	assert.Equal(t, 110000.0, ApplyPercent(100000, 10))
	assert.Equal(t, 95000.0, ApplyPercent(100000, -5))
}
