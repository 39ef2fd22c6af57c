package trend

import (
	"testing"
	"time"

	"github.com/poiesic/trendscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeline(t *testing.T) {
	table := Timeline(map[string][]core.TrendPoint{
		"토너": {{Period: day(2), Ratio: 5}},
		"크림": {{Period: day(1), Ratio: 50}, {Period: day(2), Ratio: 70}},
	})

	assert.Equal(t, []string{"크림", "토너"}, table.Keywords)
	require.Len(t, table.Rows, 2)
	assert.True(t, table.Rows[0].Period.Equal(day(1)))
	assert.True(t, table.Rows[1].Period.Equal(day(2)))

	// 토너 has no point on day 1: absent, not zero
	assert.Equal(t, Cell{Ratio: 50, OK: true}, table.Rows[0].Cells[0])
	assert.Equal(t, Cell{}, table.Rows[0].Cells[1])
	assert.Equal(t, Cell{Ratio: 5, OK: true}, table.Rows[1].Cells[1])

	v, ok := table.Value("크림", day(2))
	assert.True(t, ok)
	assert.Equal(t, 70.0, v)

	_, ok = table.Value("토너", day(1))
	assert.False(t, ok)

	_, ok = table.Value("없음", day(1))
	assert.False(t, ok)
}

func TestTimeline_Empty(t *testing.T) {
	table := Timeline(nil)
	assert.Empty(t, table.Keywords)
	assert.Empty(t, table.Rows)
}
