package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func window(t *testing.T, start, end string) Window {
	t.Helper()
	return Window{Start: mustTime(t, start), End: mustTime(t, end)}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"8:30", 0, true},
		{"0830", 0, true},
		{"ab:cd", 0, true},
		{"12:3x", 0, true},
		{"00:0a", 0, true},
		{"1x:30", 0, true},
		{"-1:30", 0, true},
		{"12 30", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, TimeOfDay(tt.want), got)
		assert.Equal(t, tt.in, got.String())
	}
}

func TestSlots(t *testing.T) {
	tests := []struct {
		name     string
		window   Window
		duration int
		want     []string
	}{
		{
			name:     "hourly slots in a morning window",
			window:   window(t, "08:00", "12:00"),
			duration: 60,
			want:     []string{"08:00", "09:00", "10:00", "11:00"},
		},
		{
			name:     "last slot may end exactly at window end",
			window:   window(t, "09:00", "10:30"),
			duration: 30,
			want:     []string{"09:00", "09:30", "10:00"},
		},
		{
			name:     "duration longer than window yields nothing",
			window:   window(t, "08:00", "09:00"),
			duration: 90,
			want:     nil,
		},
		{
			name:     "duration equal to window yields one slot",
			window:   window(t, "08:00", "09:00"),
			duration: 60,
			want:     []string{"08:00"},
		},
		{
			name:     "non-dividing duration drops the remainder",
			window:   window(t, "08:00", "12:00"),
			duration: 90,
			want:     []string{"08:00", "09:30"},
		},
		{
			name:     "zero duration yields nothing",
			window:   window(t, "08:00", "12:00"),
			duration: 0,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slots(tt.window, tt.duration)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, Strings(got))
		})
	}
}

func TestSlotsStayInsideWindow(t *testing.T) {
	w := window(t, "07:15", "19:45")
	for _, duration := range []int{15, 20, 30, 45, 60, 75, 120} {
		for _, s := range Slots(w, duration) {
			assert.GreaterOrEqual(t, s, w.Start, "duration %d", duration)
			assert.LessOrEqual(t, s.Add(duration), w.End, "duration %d", duration)
		}
	}
}

func TestSlotsDeterministic(t *testing.T) {
	w := window(t, "08:00", "18:00")
	first := Slots(w, 45)
	second := Slots(w, 45)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i], first[i-1], "slots must be strictly increasing")
	}
}
