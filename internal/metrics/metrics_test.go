package metrics

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDifficultyLabel(t *testing.T) {
	tests := map[string]string{
		"easy":   "easy",
		"medium": "medium",
		"hard":   "hard",
		"Hard":   "other",
		"junk-1": "other",
		"":       "other",
	}
	for in, want := range tests {
		assert.Equal(t, want, DifficultyLabel(in), in)
	}
}

func TestScoresSubmittedSeriesStayBounded(t *testing.T) {
	for i := 0; i < 200; i++ {
		ScoresSubmittedTotal.WithLabelValues(DifficultyLabel("junk-" + strconv.Itoa(i))).Inc()
	}
	ScoresSubmittedTotal.WithLabelValues(DifficultyLabel("easy")).Inc()

	assert.LessOrEqual(t, testutil.CollectAndCount(ScoresSubmittedTotal), 4)
	assert.Equal(t, float64(200), testutil.ToFloat64(ScoresSubmittedTotal.WithLabelValues("other")))
}
