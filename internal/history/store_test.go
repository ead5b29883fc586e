package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saumyapandey31/Phishnet/internal/model"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func result(i int) model.ClassificationResult {
	return model.ClassificationResult{
		URL:             fmt.Sprintf("https://site%d.example.com", i),
		RiskLevel:       model.RiskSafe,
		Threats:         []string{},
		Recommendations: []string{"Website appears legitimate"},
		Timestamp:       time.Date(2024, 3, 10, 12, 0, i, 0, time.UTC),
		ModelVersion:    model.FallbackModelVersion,
		DetectionSource: model.FallbackDetectionSource,
	}
}

func TestStore_RecordEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), WithLogger(quietLogger()))
	s.Load(ctx)

	var got []model.HistoryEntry
	for i := 1; i <= 11; i++ {
		var err error
		got, err = s.Record(ctx, result(i))
		require.NoError(t, err)
	}

	require.Len(t, got, DefaultCapacity)
	assert.Equal(t, result(11).URL, got[0].URL)
	assert.Equal(t, result(2).URL, got[len(got)-1].URL)
	for _, e := range got {
		assert.NotEqual(t, result(1).URL, e.URL)
	}
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Timestamp.After(got[i].Timestamp), "not newest first at %d", i)
	}
}

func TestStore_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), WithLogger(quietLogger()))
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		entries, err := s.Record(ctx, result(i))
		require.NoError(t, err)
		require.NotEmpty(t, entries[0].ID)
		assert.False(t, seen[entries[0].ID])
		seen[entries[0].ID] = true
	}
}

func TestStore_ReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, WithLogger(quietLogger()), WithIDGenerator(func() string { return "id-1" }))
	s.Load(ctx)

	r := result(7)
	_, err := s.Record(ctx, r)
	require.NoError(t, err)

	reloaded := New(backend, WithLogger(quietLogger())).Load(ctx)
	require.Len(t, reloaded, 1)
	assert.Equal(t, model.HistoryEntry{ClassificationResult: r, ID: "id-1"}, reloaded[0])
}

func TestStore_ClearThenLoadIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, WithLogger(quietLogger()))
	for i := 0; i < 3; i++ {
		_, err := s.Record(ctx, result(i))
		require.NoError(t, err)
	}
	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Entries())

	_, err := backend.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, New(backend, WithLogger(quietLogger())).Load(ctx))
}

func TestStore_LoadMissingKey(t *testing.T) {
	s := New(NewMemoryBackend(), WithLogger(quietLogger()))
	assert.Empty(t, s.Load(context.Background()))
}

func TestStore_LoadCorruptResets(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, DefaultKey, []byte("{not json")))

	s := New(backend, WithLogger(quietLogger()))
	assert.Empty(t, s.Load(ctx))

	raw, err := backend.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestStore_LoadTruncatesOversizedList(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	var stored []model.HistoryEntry
	for i := 14; i >= 0; i-- {
		stored = append(stored, model.HistoryEntry{ClassificationResult: result(i), ID: fmt.Sprintf("id-%d", i)})
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, backend.Save(ctx, DefaultKey, raw))

	s := New(backend, WithLogger(quietLogger()))
	got := s.Load(ctx)
	require.Len(t, got, DefaultCapacity)
	assert.Equal(t, result(14).URL, got[0].URL)

	raw, err = backend.Load(ctx, DefaultKey)
	require.NoError(t, err)
	var persisted []model.HistoryEntry
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, DefaultCapacity)
	assert.Equal(t, got, persisted)
}

func TestStore_CapacityNeverExceedsDefault(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), WithCapacity(50), WithLogger(quietLogger()))
	assert.Equal(t, DefaultCapacity, s.Capacity())
	for i := 0; i < 15; i++ {
		_, err := s.Record(ctx, result(i))
		require.NoError(t, err)
	}
	assert.Len(t, s.Entries(), DefaultCapacity)

	small := New(NewMemoryBackend(), WithCapacity(3), WithLogger(quietLogger()))
	assert.Equal(t, 3, small.Capacity())
}

func TestStore_EntriesIsolatedFromCaller(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), WithLogger(quietLogger()))
	got, err := s.Record(ctx, result(1))
	require.NoError(t, err)

	got[0].Recommendations[0] = "changed"
	got[0].Threats = append(got[0].Threats, "added")
	assert.Equal(t, []string{"Website appears legitimate"}, s.Entries()[0].Recommendations)
	assert.Empty(t, s.Entries()[0].Threats)
}

func TestStore_PersistedEqualsMemory(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, WithLogger(quietLogger()))
	for i := 0; i < 12; i++ {
		_, err := s.Record(ctx, result(i))
		require.NoError(t, err)
		assert.Equal(t, s.Entries(), New(backend, WithLogger(quietLogger())).Load(ctx))
	}
}

func TestStore_CustomKey(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, WithKey("other"), WithLogger(quietLogger()))
	_, err := s.Record(ctx, result(1))
	require.NoError(t, err)

	_, err = backend.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.Load(ctx, "other")
	assert.NoError(t, err)
}

func TestStore_EntriesIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), WithLogger(quietLogger()))
	_, err := s.Record(ctx, result(1))
	require.NoError(t, err)

	e := s.Entries()
	e[0].URL = "mutated"
	assert.Equal(t, result(1).URL, s.Entries()[0].URL)
}

type failingBackend struct {
	*MemoryBackend
	err error
}

func (f failingBackend) Save(context.Context, string, []byte) error { return f.err }
func (f failingBackend) Delete(context.Context, string) error      { return f.err }

func TestStore_PersistenceFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	s := New(failingBackend{MemoryBackend: NewMemoryBackend(), err: boom}, WithLogger(quietLogger()))

	entries, err := s.Record(ctx, result(1))
	require.ErrorIs(t, err, boom)
	require.Len(t, entries, 1)
	assert.Len(t, s.Entries(), 1)

	err = s.Clear(ctx)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, s.Entries())
}

func TestStore_ConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Record(ctx, result(i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Entries(), DefaultCapacity)
	assert.Equal(t, s.Entries(), New(backend, WithLogger(quietLogger())).Load(ctx))
}

func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Save(ctx, "k", []byte(`[1]`)))
	require.NoError(t, b.Save(ctx, "k", []byte(`[2]`)))
	v, err := b.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(v))

	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	s := New(b, WithLogger(quietLogger()))
	for i := 0; i < 11; i++ {
		_, err := s.Record(ctx, result(i))
		require.NoError(t, err)
	}
	got := New(b, WithLogger(quietLogger())).Load(ctx)
	require.Len(t, got, DefaultCapacity)
	assert.Equal(t, result(10).URL, got[0].URL)
}

func TestMemoryBackend(t *testing.T) {
	backendContract(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	backendContract(t, b)
	assert.Equal(t, filepath.Join(dir, "nested", "scan_History_.json"), b.Path("scan/History?"))
}

func TestSQLiteBackend(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	backendContract(t, b)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := NewRedisBackend("redis://"+mr.Addr()+"/0", "phishnet:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	backendContract(t, b)

	assert.True(t, mr.Exists("phishnet:"+DefaultKey))
}

func TestRedisBackendBadURL(t *testing.T) {
	_, err := NewRedisBackend("://nope", "")
	require.Error(t, err)
}
