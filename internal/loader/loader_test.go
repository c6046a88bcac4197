package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/storage"
)

func newTestLoader(t *testing.T) (*Loader, *storage.Storage, string) {
	t.Helper()
	dir := t.TempDir()

	pbPath := filepath.Join(dir, "powerball.csv")
	require.NoError(t, os.WriteFile(pbPath, []byte(powerballCSV), 0o644))

	store := storage.New()
	l, err := New(store, []Source{
		{Game: powerball, Path: pbPath},
		{Game: lotto, Path: filepath.Join(dir, "lotto.csv")}, // never written
	}, models.NewestFirst)
	require.NoError(t, err)
	return l, store, dir
}

func TestLoader_LoadAll(t *testing.T) {
	l, store, _ := newTestLoader(t)

	loadErrors, err := l.LoadAll(context.Background())
	require.NoError(t, err)

	require.Len(t, loadErrors, 1)
	assert.Equal(t, "lotto", loadErrors[0].Game)
	assert.Contains(t, loadErrors[0].Error(), "lotto")

	h, err := store.History("powerball")
	require.NoError(t, err)
	assert.Equal(t, 3, h.Len())
	assert.True(t, h.Draws[1].Secondary)

	_, err = store.History("lotto")
	assert.True(t, errors.Is(err, storage.ErrNotLoaded))
}

func TestLoader_LoadAllCancelled(t *testing.T) {
	l, _, _ := newTestLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.LoadAll(ctx)
	assert.Error(t, err)
}

func TestLoader_ReloadUnknown(t *testing.T) {
	l, _, _ := newTestLoader(t)
	_, err := l.Reload(context.Background(), "keno")
	assert.True(t, errors.Is(err, storage.ErrUnknownGame))
}

func TestLoader_Sources(t *testing.T) {
	l, _, _ := newTestLoader(t)
	sources := l.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, "lotto", sources[0].Game.Name)
	assert.Equal(t, "powerball", sources[1].Game.Name)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	l, store, _ := newTestLoader(t)

	var mu sync.Mutex
	reloads := 0
	w := NewWatcher(l, 50*time.Millisecond, func(string, ParseReport, error) {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		w.schedule(context.Background(), "powerball")
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return store.Generation("powerball") == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, reloads)
	assert.Equal(t, uint64(1), store.Generation("powerball"))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	l, store, dir := newTestLoader(t)
	_, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), store.Generation("powerball"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan string, 4)
	w := NewWatcher(l, 50*time.Millisecond, func(game string, _ ParseReport, err error) {
		if err == nil {
			reloaded <- game
		}
	})
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher a moment to register the directory
	time.Sleep(100 * time.Millisecond)

	lottoPath := filepath.Join(dir, "lotto.csv")
	require.NoError(t, os.WriteFile(lottoPath, []byte("Date,Winning Numbers,Multiplier\n1/1,1-2-3-4-5-6,3X\n"), 0o644))

	select {
	case game := <-reloaded:
		assert.Equal(t, "lotto", game)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload lotto")
	}

	h, err := store.History("lotto")
	require.NoError(t, err)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, uint64(1), store.Generation("powerball"), "untouched game is not reloaded")

	cancel()
	assert.NoError(t, <-done)
}
