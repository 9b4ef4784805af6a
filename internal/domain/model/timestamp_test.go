package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-06-01T10:30:00Z", time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), true},
		{"2024-06-01T10:30:00+02:00", time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), true},
		{"2024-06-01T10:30:00.123Z", time.Date(2024, 6, 1, 10, 30, 0, 123_000_000, time.UTC), true},
		{"2024-06-01T10:30:00", time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), true},
		{"2024-06-01 10:30:00", time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), true},
		{"06/01/2024", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := model.ParseTimestamp(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Empty(t, model.FormatTimestamp(time.Time{}))
	assert.Equal(t, "2023-01-01T00:00:00Z", model.FormatTimestamp(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
}
