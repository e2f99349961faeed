package recovery

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRecoverToValue(t *testing.T) {
	v, err := RecoverToValue(discard, "ok", func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	_, err = RecoverToValue(discard, "fails", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err = RecoverToValue(discard, "List", func() (int, error) {
		var m map[string]int
		m["x"] = 1
		return 7, nil
	})
	assert.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "List")
	assert.Zero(t, v)
}
