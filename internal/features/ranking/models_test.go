package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankForThresholds(t *testing.T) {
	cases := []struct {
		messages int
		level    int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{2500, 4},
		{5000, 5},
		{10000, 6},
		{25000, 7},
		{50000, 8},
		{99999, 8},
		{100000, 9},
		{1000000, 9},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, RankFor(tc.messages).Level, "messages=%d", tc.messages)
	}
}

func TestRankForIsMaximalEligible(t *testing.T) {
	// Каждый счётчик получает самый высокий ранг из доступных
	for messages := 0; messages <= 110000; messages += 137 {
		tier := RankFor(messages)
		assert.LessOrEqual(t, tier.MinMessages, messages)
		if next := NextTier(tier); next != nil {
			assert.Less(t, messages, next.MinMessages)
		}
	}
}

func TestNextTier(t *testing.T) {
	next := NextTier(Tiers[0])
	assert.NotNil(t, next)
	assert.Equal(t, 1, next.Level)

	assert.Nil(t, NextTier(Tiers[len(Tiers)-1]))
}

func TestTiersOrdered(t *testing.T) {
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i].MinMessages, Tiers[i-1].MinMessages)
		assert.Equal(t, i, Tiers[i].Level)
	}
	assert.Equal(t, 0, Tiers[0].MinMessages)
}
