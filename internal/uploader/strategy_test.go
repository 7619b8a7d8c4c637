package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectStrategy(t *testing.T) {
	threshold := 10 * MiB

	tests := []struct {
		name string
		size int64
		want Strategy
	}{
		{"well under threshold", 3 * MiB, StrategyDirect},
		{"one byte under", threshold - 1, StrategyDirect},
		{"exactly at threshold", threshold, StrategyMultipart},
		{"over threshold", 12 * MiB, StrategyMultipart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectStrategy(tt.size, threshold))
		})
	}
}

func TestSelectStrategyUnsetThresholdStaysDirect(t *testing.T) {
	assert.Equal(t, StrategyDirect, SelectStrategy(500*MiB, 0))
}

func TestMultipartSizingForTypicalVideo(t *testing.T) {
	// a 12MiB clip above a 10MiB threshold slices into 5+5+2
	size := 12 * MiB
	assert.Equal(t, StrategyMultipart, SelectStrategy(size, 10*MiB))

	plan := NewPartPlan(size, DefaultPartSize)
	assert.Equal(t, 3, plan.TotalParts)

	_, lastLen := plan.Range(3)
	assert.Equal(t, 2*MiB, lastLen)
}
