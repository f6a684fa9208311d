package catchment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStatusStore(t *testing.T) {
	store := NewMemoryStatusStore()

	_, err := store.GetStatus("missing")
	require.ErrorIs(t, err, ErrUnknownJob)

	require.NoError(t, store.SetStatus("job-1", STATUS_IN_PROGRESS))
	status, err := store.GetStatus("job-1")
	require.NoError(t, err)
	require.Equal(t, STATUS_IN_PROGRESS, status)
	require.False(t, status.Terminal())

	require.NoError(t, store.SetStatus("job-1", STATUS_SUCCESS))
	status, err = store.GetStatus("job-1")
	require.NoError(t, err)
	require.Equal(t, STATUS_SUCCESS, status)
	require.True(t, status.Terminal())
}

func TestJobStatusString(t *testing.T) {
	require.Equal(t, "in_progress", STATUS_IN_PROGRESS.String())
	require.Equal(t, "success", STATUS_SUCCESS.String())
	require.Equal(t, "failure", STATUS_FAILURE.String())
	require.Equal(t, "disconnected_origin", STATUS_DISCONNECTED_ORIGIN.String())
	require.True(t, STATUS_DISCONNECTED_ORIGIN.Terminal())
}
