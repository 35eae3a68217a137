package store

import (
	"testing"

	"dama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared&mode=memory")
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)
	return s
}

func TestResolveUserByIDMissing(t *testing.T) {
	s := openTestStore(t)
	_, ok := s.ResolveUserByID("nobody")
	assert.False(t, ok)
}

func TestRecordResultThenResolve(t *testing.T) {
	s := openTestStore(t)

	s.RecordResult("u1", dama.Win)
	s.RecordResult("u1", dama.Win)
	s.RecordResult("u1", dama.Loss)

	user, ok := s.ResolveUserByID("u1")
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
}

func TestRecordResultIgnoresAnonymous(t *testing.T) {
	s := openTestStore(t)
	s.RecordResult("", dama.Win)
	_, ok := s.ResolveUserByID("")
	assert.False(t, ok)
}
