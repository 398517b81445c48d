package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriodDuration(t *testing.T) {
	for _, months := range []int{1, 3, 6, 12} {
		d, err := ParsePeriodDuration(months)
		require.NoError(t, err)
		assert.Equal(t, months, d.Months())
	}
}

func TestParsePeriodDurationRejectsOthers(t *testing.T) {
	for _, months := range []int{0, 2, 4, 5, 7, 11, 13, -1, 24} {
		_, err := ParsePeriodDuration(months)
		assert.Error(t, err, "months=%d", months)
	}
}

func TestParseSlideshowMode(t *testing.T) {
	assert.Equal(t, Chronological, ParseSlideshowMode("chronological"))
	assert.Equal(t, Random, ParseSlideshowMode("random"))
	assert.Equal(t, ReverseChronological, ParseSlideshowMode("reverse-chronological"))
}

func TestParseSlideshowModeFallsBack(t *testing.T) {
	assert.Equal(t, Chronological, ParseSlideshowMode(""))
	assert.Equal(t, Chronological, ParseSlideshowMode("shuffled"))
}
