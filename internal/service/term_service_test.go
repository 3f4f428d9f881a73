package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentTermAt(t *testing.T) {
	cases := []struct {
		month time.Month
		year  int
		want  string
	}{
		{time.January, 2025, "202501"},
		{time.May, 2025, "202501"},
		{time.June, 2025, "202505"},
		{time.July, 2025, "202505"},
		{time.August, 2025, "202508"},
		{time.November, 2025, "202508"},
		{time.December, 2025, "202612"},
	}
	for _, tc := range cases {
		at := time.Date(tc.year, tc.month, 15, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, tc.want, CurrentTermAt(at), tc.month.String())
	}
}

func TestTermServiceList(t *testing.T) {
	svc := NewTermService(func() time.Time {
		return time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)
	})

	resp := svc.List()
	require.Len(t, resp.Terms, 4)
	assert.Equal(t, "202505", resp.Terms[0].ID)
	assert.Equal(t, "Summer 2025", resp.Terms[0].Label)
	assert.Equal(t, "202508", resp.Terms[1].ID)
	assert.Equal(t, "202512", resp.Terms[2].ID)
	assert.Equal(t, "Winter 2026", resp.Terms[2].Label)
	assert.Equal(t, "202601", resp.Terms[3].ID)
	assert.Equal(t, "202508", resp.Current)
}
