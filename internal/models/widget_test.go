package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWidgetKind_IsValid(t *testing.T) {
	for _, kind := range AllWidgetKinds {
		assert.True(t, kind.IsValid(), "kind %s", kind)
	}
	assert.False(t, WidgetKind("calendar").IsValid())
	assert.False(t, WidgetKind("").IsValid())
	assert.False(t, WidgetKind("Activity").IsValid())
}

func TestParams_Get(t *testing.T) {
	params := Params{{Name: "a", Value: "1"}, {Name: "b", Value: ""}, {Name: "a", Value: "2"}}

	value, ok := params.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	value, ok = params.Get("b")
	assert.True(t, ok)
	assert.Empty(t, value)

	_, ok = params.Get("c")
	assert.False(t, ok)

	_, ok = Params(nil).Get("a")
	assert.False(t, ok)
}

func TestTTL(t *testing.T) {
	tests := []struct {
		ttl      TTL
		seconds  int64
		duration time.Duration
	}{
		{TTL(300 * time.Second), 300, 300 * time.Second},
		{TTL(1500 * time.Millisecond), 1, time.Second},
		{TTL(999 * time.Millisecond), 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.seconds, tt.ttl.Seconds())
		assert.Equal(t, tt.duration, tt.ttl.Duration())
	}
}
