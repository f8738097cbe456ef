package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"modeltron/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *TranscriptStore {
	t.Helper()
	s, err := NewTranscriptStore(filepath.Join(t.TempDir(), "nested", "modeltron.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTranscriptStore_Schema(t *testing.T) {
	s := newTestStore(t)
	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v)
}

func TestTranscriptStore_Roundtrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.StartSession("resnet", "console")
	require.NoError(t, err)
	require.Len(t, id, 36)

	require.NoError(t, s.AppendMessage(id, types.NewMessage(types.RoleUser, "analyze layer stack", types.ModeText)))
	require.NoError(t, s.AppendMessage(id, types.NewMessage(types.RoleAssistant, "ANALYSIS COMPLETE", types.ModeText)))
	require.NoError(t, s.AppendMessage(id, types.NewMessage(types.RoleSystem, "ERROR: Analysis failed. Please try again.", types.ModeChat)))

	msgs, err := s.Messages(id)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, "ANALYSIS COMPLETE", msgs[1].Content)
	assert.Equal(t, types.ModeChat, msgs[2].Mode)
	assert.False(t, msgs[0].Timestamp.IsZero())
}

func TestTranscriptStore_Sessions(t *testing.T) {
	s := newTestStore(t)

	first, err := s.StartSession("a", "cli")
	require.NoError(t, err)
	second, err := s.StartSession("b", "console")
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(second, types.NewMessage(types.RoleUser, "hi", types.ModeChat)))

	m := types.DefaultMetrics()
	m.Accuracy = 77
	require.NoError(t, s.UpdateMetrics(second, m))

	sessions, err := s.Sessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second, sessions[0].ID, "newest first")
	assert.Equal(t, 1, sessions[0].Messages)
	assert.Equal(t, 77.0, sessions[0].Metrics.Accuracy)
	assert.Equal(t, first, sessions[1].ID)
	assert.Equal(t, types.DefaultMetrics(), sessions[1].Metrics)
}

func TestTranscriptStore_UnknownSession(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Messages("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.UpdateMetrics("nope", types.DefaultMetrics()), ErrSessionNotFound)
}

func TestTranscriptStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modeltron.db")

	s, err := NewTranscriptStore(path)
	require.NoError(t, err)
	id, err := s.StartSession("m", "cli")
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(id, types.NewMessage(types.RoleUser, "persist me", "")))
	require.NoError(t, s.Close())

	s2, err := NewTranscriptStore(path)
	require.NoError(t, err)
	defer s2.Close()

	msgs, err := s2.Messages(id)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "persist me", msgs[0].Content)
}

func TestTranscriptStore_ConcurrentAppends(t *testing.T) {
	s := newTestStore(t)
	id, err := s.StartSession("m", "cli")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				assert.NoError(t, s.AppendMessage(id, types.NewMessage(types.RoleUser, fmt.Sprintf("%d-%d", worker, j), "")))
			}
		}(i)
	}
	wg.Wait()

	msgs, err := s.Messages(id)
	require.NoError(t, err)
	assert.Len(t, msgs, 40)
}
