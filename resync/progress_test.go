package resync

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at the configured interval", func(t *testing.T) {
		var out bytes.Buffer
		tracker := NewProgressTracker(&out, 10, 5)
		tracker.Start()

		tracker.Update(3)
		assert.Empty(t, out.String())

		tracker.Update(5)
		assert.Contains(t, out.String(), "5/10 (50.0%)")
	})

	t.Run("finish always prints final progress", func(t *testing.T) {
		var out bytes.Buffer
		tracker := NewProgressTracker(&out, 4, 100)
		tracker.Start()

		tracker.Update(2)
		tracker.Finish()

		assert.Contains(t, out.String(), "4/4 (100.0%)")
		assert.True(t, bytes.HasSuffix(out.Bytes(), []byte("\n")))
	})

	t.Run("updates before start are ignored", func(t *testing.T) {
		var out bytes.Buffer
		tracker := NewProgressTracker(&out, 10, 1)

		tracker.Update(5)
		tracker.Finish()
		assert.Empty(t, out.String())
	})

	t.Run("current is capped at total", func(t *testing.T) {
		var out bytes.Buffer
		tracker := NewProgressTracker(&out, 3, 1)
		tracker.Start()

		tracker.Update(9)
		assert.Contains(t, out.String(), "3/3 (100.0%)")
	})

	t.Run("elapsed is zero before start", func(t *testing.T) {
		tracker := NewProgressTracker(&bytes.Buffer{}, 1, 1)
		require.Zero(t, tracker.Elapsed())
	})
}
