package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryReport_SuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, (&SummaryReport{}).SuccessRate())
	assert.Equal(t, 75.0, (&SummaryReport{TotalRequests: 4, SuccessfulRequests: 3}).SuccessRate())
}

func TestSummaryReport_HasTTFT(t *testing.T) {
	assert.False(t, (&SummaryReport{}).HasTTFT())

	p := 0.1
	assert.True(t, (&SummaryReport{TimeToFirstToken: Distribution{P50: &p}}).HasTTFT())
}
