package values

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "robot-1", String("robot-1"))
	assert.Empty(t, String(42))
	assert.Empty(t, String(nil))
}

func TestInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int", 7, 7},
		{"int64", int64(20), 20},
		{"float64", float64(3), 3},
		{"string", "5", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Int(tt.in))
		})
	}
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true))
	assert.False(t, Bool("true"))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Strings([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "c"}, Strings([]any{"a", 1, "c"}))
	assert.Nil(t, Strings("a"))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Duration
	}{
		{"duration", 2 * time.Second, 2 * time.Second},
		{"string", "250ms", 250 * time.Millisecond},
		{"bad string", "soon", 0},
		{"millis int", 40, 40 * time.Millisecond},
		{"millis int64", int64(15), 15 * time.Millisecond},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in))
		})
	}
}
