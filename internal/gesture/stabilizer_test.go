package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestStabilizer_Ramp(t *testing.T) {
	s := NewStabilizer(500 * time.Millisecond)

	st := s.Update(Point, t0)
	assert.Equal(t, Point, st.Type)
	assert.Equal(t, t0, st.Since)
	assert.Zero(t, st.Confidence)

	st = s.Update(Point, t0.Add(150*time.Millisecond))
	assert.InDelta(t, 0.3, st.Confidence, 1e-9)

	st = s.Update(Point, t0.Add(250*time.Millisecond))
	assert.InDelta(t, 0.5, st.Confidence, 1e-9)
	assert.Equal(t, t0, st.Since, "since does not move while the type is held")

	st = s.Update(Point, t0.Add(2*time.Second))
	assert.Equal(t, 1.0, st.Confidence, "confidence saturates at 1")
}

func TestStabilizer_ResetsOnChange(t *testing.T) {
	s := NewStabilizer(DefaultRamp)

	s.Update(Point, t0)
	s.Update(Point, t0.Add(time.Second))
	assert.Equal(t, 1.0, s.State().Confidence)

	changed := t0.Add(time.Second + 16*time.Millisecond)
	st := s.Update(Open, changed)
	assert.Equal(t, Open, st.Type)
	assert.Equal(t, changed, st.Since)
	assert.Zero(t, st.Confidence)

	t.Run("a single none frame restarts the ramp", func(t *testing.T) {
		s.Update(Open, changed.Add(400*time.Millisecond))
		st := s.Update(None, changed.Add(416*time.Millisecond))
		assert.Equal(t, None, st.Type)
		assert.Zero(t, st.Confidence)

		st = s.Update(Open, changed.Add(432*time.Millisecond))
		assert.Zero(t, st.Confidence)
	})
}

func TestStabilizer_MonotonicWhileHeld(t *testing.T) {
	s := NewStabilizer(DefaultRamp)
	s.Update(Peace, t0)

	prev := 0.0
	for ms := 0; ms <= 800; ms += 16 {
		st := s.Update(Peace, t0.Add(time.Duration(ms)*time.Millisecond))
		assert.GreaterOrEqual(t, st.Confidence, prev)
		assert.LessOrEqual(t, st.Confidence, 1.0)
		prev = st.Confidence
	}

	// Clock stepping backwards.
	st := s.Update(Peace, t0.Add(100*time.Millisecond))
	assert.Equal(t, prev, st.Confidence)
}

func TestStabilizer_Reset(t *testing.T) {
	s := NewStabilizer(0)
	s.Update(Open, t0)
	s.Update(Open, t0.Add(time.Second))

	s.Reset()
	assert.Equal(t, State{Type: None}, s.State())

	st := s.Update(None, t0.Add(2*time.Second))
	assert.Equal(t, t0.Add(2*time.Second), st.Since)
	assert.Zero(t, st.Confidence)
}
