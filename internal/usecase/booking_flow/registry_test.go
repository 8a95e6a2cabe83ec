package booking_flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(ttl time.Duration) (*Registry, *time.Time) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(Config{}, Dependencies{Logger: nopLogger{}}, ttl)
	r.now = func() time.Time { return now }
	return r, &now
}

func TestRegistry_CreateGetDelete(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	ctrl := r.Create()
	require.NotEmpty(t, ctrl.ID())

	got, err := r.Get(ctrl.ID())
	require.NoError(t, err)
	assert.Same(t, ctrl, got)
	assert.Equal(t, StepCustomerDetails, got.Snapshot().Step)

	require.NoError(t, r.Delete(ctrl.ID()))
	_, err = r.Get(ctrl.ID())
	assert.ErrorIs(t, err, ErrFlowNotFound)
	assert.ErrorIs(t, r.Delete(ctrl.ID()), ErrFlowNotFound)
}

func TestRegistry_UniqueIDs(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	assert.NotEqual(t, r.Create().ID(), r.Create().ID())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Expiry(t *testing.T) {
	r, now := newTestRegistry(10 * time.Minute)

	idle := r.Create()
	active := r.Create()

	*now = now.Add(6 * time.Minute)
	_, err := r.Get(active.ID())
	require.NoError(t, err)

	*now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, r.Evict())

	_, err = r.Get(idle.ID())
	assert.ErrorIs(t, err, ErrFlowNotFound)
	_, err = r.Get(active.ID())
	assert.NoError(t, err)
}

func TestRegistry_GetDropsExpired(t *testing.T) {
	r, now := newTestRegistry(time.Minute)
	ctrl := r.Create()

	*now = now.Add(2 * time.Minute)
	_, err := r.Get(ctrl.ID())

	assert.ErrorIs(t, err, ErrFlowNotFound)
	assert.Zero(t, r.Len())
}
