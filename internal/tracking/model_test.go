package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t0 := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	tests := []struct {
		name       string
		prev       View
		hb         Heartbeat
		at         time.Time
		wantActive int
		wantScroll int
		wantFirst  time.Time
		wantLast   time.Time
	}{
		{
			name:       "First heartbeat starts the view",
			hb:         Heartbeat{ActiveSeconds: 12, ScrollDepth: 40},
			at:         t0,
			wantActive: 12, wantScroll: 40, wantFirst: t0, wantLast: t0,
		},
		{
			name:       "Larger values win",
			prev:       View{ActiveSeconds: 12, MaxScrollDepth: 40, FirstSeenAt: t0, LastSeenAt: t0},
			hb:         Heartbeat{ActiveSeconds: 30, ScrollDepth: 75},
			at:         t1,
			wantActive: 30, wantScroll: 75, wantFirst: t0, wantLast: t1,
		},
		{
			name:       "Late heartbeat never lowers counters",
			prev:       View{ActiveSeconds: 30, MaxScrollDepth: 75, FirstSeenAt: t0, LastSeenAt: t1},
			hb:         Heartbeat{ActiveSeconds: 5, ScrollDepth: 10},
			at:         t0,
			wantActive: 30, wantScroll: 75, wantFirst: t0, wantLast: t1,
		},
		{
			name:       "Scroll depth is clamped to 100",
			hb:         Heartbeat{ScrollDepth: 250},
			at:         t0,
			wantActive: 0, wantScroll: 100, wantFirst: t0, wantLast: t0,
		},
		{
			name:       "Negative values count as zero",
			hb:         Heartbeat{ActiveSeconds: -4, ScrollDepth: -1},
			at:         t0,
			wantActive: 0, wantScroll: 0, wantFirst: t0, wantLast: t0,
		},
		{
			name:       "Active time is capped at one day",
			hb:         Heartbeat{ActiveSeconds: 100000},
			at:         t0,
			wantActive: maxActiveSeconds, wantScroll: 0, wantFirst: t0, wantLast: t0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.prev, tt.hb, tt.at)
			assert.Equal(t, tt.wantActive, got.ActiveSeconds)
			assert.Equal(t, tt.wantScroll, got.MaxScrollDepth)
			assert.Equal(t, tt.wantFirst, got.FirstSeenAt)
			assert.Equal(t, tt.wantLast, got.LastSeenAt)
		})
	}
}

func TestMerge_OrderIndependent(t *testing.T) {
	at := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	a := Heartbeat{ActiveSeconds: 10, ScrollDepth: 90}
	b := Heartbeat{ActiveSeconds: 45, ScrollDepth: 20}

	ab := Merge(Merge(View{}, a, at), b, at)
	ba := Merge(Merge(View{}, b, at), a, at)
	assert.Equal(t, ab, ba)
	assert.Equal(t, 45, ab.ActiveSeconds)
	assert.Equal(t, 90, ab.MaxScrollDepth)
}
