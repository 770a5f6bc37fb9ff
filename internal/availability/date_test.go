package availability

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/apperror"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.February, 29), got)
	assert.Equal(t, "2024-02-29", got.String())

	for _, bad := range []string{"", "2024-13-01", "2023-02-29", "01/02/2024", "2024-02-01T00:00:00Z"} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, ErrInvalidDateFormat, bad)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "invalid_date_format", appErr.Message)
	}
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	ts := time.Date(2024, time.March, 1, 1, 30, 0, 0, taipei) // still Feb 29 in UTC

	assert.Equal(t, "2024-03-01", DateOf(ts).String())
	assert.Equal(t, "2024-02-29", DateOf(ts.UTC()).String())
}

func TestDateArithmetic(t *testing.T) {
	start := NewDate(2024, time.February, 27)
	end := start.AddDays(4)

	assert.Equal(t, "2024-03-02", end.String())
	assert.Equal(t, 4, start.DaysUntil(end))
	assert.Equal(t, -4, end.DaysUntil(start))
	assert.Equal(t, -1, start.Compare(end))
	assert.True(t, start.Before(end))
	assert.Equal(t, start, MinDate(start, end))
	assert.Equal(t, end, MaxDate(start, end))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		CheckIn Date `json:"check_in"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"check_in":"2024-07-04"}`), &p))
	assert.Equal(t, NewDate(2024, time.July, 4), p.CheckIn)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"check_in":"2024-07-04"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"check_in":"July 4"}`), &p))
}
