package timeparse_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Calendar(t *testing.T) {
	got, err := timeparse.Parse("2024:06:18:12:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 18, 12, 30, 0, 0, time.UTC), got)
}

func TestParse_DayOfYear(t *testing.T) {
	got, err := timeparse.Parse("2024:170:12:30:00")
	require.NoError(t, err)
	// 2024 is a leap year: day 170 is June 18.
	assert.Equal(t, time.Date(2024, 6, 18, 12, 30, 0, 0, time.UTC), got)
}

func TestParse_DayOfYearUnpadded(t *testing.T) {
	got, err := timeparse.Parse("2024:50:12:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 19, 12, 30, 0, 0, time.UTC), got)

	got, err = timeparse.Parse("2024:5:00:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestParse_DayOfYearBounds(t *testing.T) {
	_, err := timeparse.Parse("2023:366:00:00:00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrTimeFormat))

	got, err := timeparse.Parse("2024:366:00:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestParse_Rejects(t *testing.T) {
	for _, bad := range []string{
		"",
		"2024-06-18 12:30:00",
		"2024:06:18",
		"notatime",
		"2024:170:25:00:00",
	} {
		_, err := timeparse.Parse(bad)
		assert.True(t, errors.Is(err, errclass.ErrTimeFormat), "input %q", bad)
	}
}

func TestEventName(t *testing.T) {
	name := timeparse.EventName(time.Date(2024, 6, 18, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "20240618", name)
}

func TestValidateName(t *testing.T) {
	require.NoError(t, timeparse.ValidateName("20240618"))

	for _, bad := range []string{"", "2024", "2024-0618", "june18th", "202406181"} {
		err := timeparse.ValidateName(bad)
		assert.True(t, errors.Is(err, errclass.ErrNameInvalid), "input %q", bad)
	}
}

func TestFormatDOY(t *testing.T) {
	s := timeparse.FormatDOY(time.Date(2024, 6, 18, 12, 30, 5, 0, time.UTC))
	assert.Equal(t, "2024:170:12:30:05", s)

	round, err := timeparse.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 18, 12, 30, 5, 0, time.UTC), round)
}
