package dispatch

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingLoad(fail *error, calls *int) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*calls++
		if *fail != nil {
			return "", *fail
		}
		return "s1", nil
	}
}

func TestSession_RetriesUntilLoaded(t *testing.T) {
	ctx := context.Background()
	fail := stdErrors.New("offline")
	calls := 0
	s := NewSession(countingLoad(&fail, &calls))

	_, err := s.ID(ctx)
	require.ErrorIs(t, err, fail)
	assert.Empty(t, s.Loaded())

	fail = nil
	id, err := s.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	id, err = s.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
	assert.Equal(t, "s1", s.Loaded())
	assert.Equal(t, 2, calls)
}

func TestSession_Open(t *testing.T) {
	ctx := context.Background()
	fail := stdErrors.New("refused")

	t.Run("unreachable remote defers", func(t *testing.T) {
		calls := 0
		s := NewSession(countingLoad(&fail, &calls))
		b := &Binding{Mode: entities.ModeRemote, Probe: entities.ProbeUnreachable}
		require.NoError(t, s.Open(ctx, b))
		assert.Zero(t, calls)
	})

	t.Run("healthy remote loads eagerly", func(t *testing.T) {
		calls := 0
		s := NewSession(countingLoad(&fail, &calls))
		b := &Binding{Mode: entities.ModeRemote, Probe: entities.ProbeHealthy}
		require.ErrorIs(t, s.Open(ctx, b), fail)
		assert.Equal(t, 1, calls)
	})

	t.Run("native loads eagerly", func(t *testing.T) {
		calls := 0
		s := NewSession(countingLoad(&fail, &calls))
		require.ErrorIs(t, s.Open(ctx, &Binding{Mode: entities.ModeNative}), fail)
		assert.Equal(t, 1, calls)
	})
}
