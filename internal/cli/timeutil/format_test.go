package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEpochDay(t *testing.T) {
	assert.Equal(t, "-", FormatEpochDay(-1))
	assert.Equal(t, "-", FormatEpochDay(0))
	assert.Equal(t, "2024-01-01", FormatEpochDay(19723))
}

func TestFormatDayCount(t *testing.T) {
	assert.Equal(t, "-", FormatDayCount(-1))
	assert.Equal(t, "0", FormatDayCount(0))
	assert.Equal(t, "90", FormatDayCount(90))
}
