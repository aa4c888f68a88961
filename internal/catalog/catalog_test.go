package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/showmarks/internal/models"
)

const sampleJSON = `[
  {
    "episode_number": 1,
    "title": "Intro to Rust",
    "date": "2024-01-01",
    "youtube_id": "aaa",
    "timestamps": [
      {"timestamp": "00:01:00", "topic": "welcome"},
      {"timestamp": "1:10:05", "topic": "ownership"}
    ]
  },
  {
    "episode_number": 2,
    "title": "Mailbag",
    "date": "2024-02-01",
    "youtube_id": "bbb"
  }
]`

const sampleYAML = `
- episode_number: 7
  title: Go Generics
  date: 2023-11-20
  youtube_id: ggg
  timestamps:
    - timestamp: "0:05:00"
      topic: type parameters
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.json", sampleJSON)

	eps, err := Load(path)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "Intro to Rust", eps[0].Title)
	assert.Equal(t, models.NewDate(2024, time.January, 1), eps[0].Date)
	assert.Len(t, eps[0].Timestamps, 2)
	assert.Nil(t, eps[1].Timestamps)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"data.yaml", "data.yml"} {
		path := writeFile(t, dir, name, sampleYAML)

		eps, err := Load(path)
		require.NoError(t, err, name)
		require.Len(t, eps, 1)
		assert.Equal(t, 7, eps[0].EpisodeNumber)
		assert.Equal(t, models.NewDate(2023, time.November, 20), eps[0].Date)
		assert.Equal(t, "type parameters", eps[0].Timestamps[0].Topic)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	eps, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, eps)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.csv", "x")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"title": 3}]`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`[{"title":"x","date":"not a date"}]`), FormatJSON)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "missing title",
			src:     `[{"episode_number": 4, "date": "2024-01-01"}]`,
			wantErr: "title: required",
		},
		{
			name:    "bad offset",
			src:     `[{"title": "x", "timestamps": [{"timestamp": "five minutes", "topic": "t"}]}]`,
			wantErr: "timestamps[0].timestamp: hms",
		},
		{
			name:    "missing topic",
			src:     `[{"title": "x", "timestamps": [{"timestamp": "0:00:01"}]}]`,
			wantErr: "timestamps[0].topic: required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), FormatJSON)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEpisode)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("/x/EPISODES.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatFor("a.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFor("a")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodeDecodesBack(t *testing.T) {
	episodes, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf strings.Builder
			require.NoError(t, Encode(&buf, episodes, format))

			back, err := Decode(strings.NewReader(buf.String()), format)
			require.NoError(t, err)
			require.Len(t, back, len(episodes))
			for i := range episodes {
				assert.Equal(t, episodes[i].EpisodeNumber, back[i].EpisodeNumber)
				assert.Equal(t, episodes[i].Title, back[i].Title)
				assert.Equal(t, episodes[i].Date.String(), back[i].Date.String())
				assert.Equal(t, episodes[i].YouTubeID, back[i].YouTubeID)
				assert.Equal(t, episodes[i].TimestampCount(), back[i].TimestampCount())
			}
		})
	}

	assert.ErrorIs(t, Encode(io.Discard, episodes, "toml"), ErrUnsupportedFormat)
}

func TestStoreReload(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.json", sampleJSON)

	var hooks int
	store, err := NewStore(path, quietLogger(), WithLoadHook(func(time.Duration, error) { hooks++ }))
	require.NoError(t, err)

	first := store.Current()
	assert.Equal(t, int64(1), first.Version)
	assert.Equal(t, 2, len(first.Episodes))
	assert.Equal(t, 2, first.TotalTimestamps())
	assert.Equal(t, path, first.Source)

	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"only one"}]`), 0o644))
	require.NoError(t, store.Reload())

	second := store.Current()
	assert.Equal(t, int64(2), second.Version)
	assert.Len(t, second.Episodes, 1)
	// The old snapshot is untouched.
	assert.Len(t, first.Episodes, 2)
	assert.Equal(t, 2, hooks)
}

func TestStoreReloadFailureKeepsSnapshot(t *testing.T) {
	calls := 0
	loader := func(string) ([]models.Episode, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("boom")
		}
		return []models.Episode{{Title: "a"}}, nil
	}

	store, err := NewStore("data.json", quietLogger(), WithLoader(loader))
	require.NoError(t, err)

	err = store.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, int64(1), store.Current().Version)
	assert.Equal(t, "a", store.Current().Episodes[0].Title)
}

func TestNewStoreFails(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "nope.json"), quietLogger())
	assert.Error(t, err)
}

func TestStaticStore(t *testing.T) {
	store := NewStaticStore([]models.Episode{{Title: "x"}})
	require.NoError(t, store.Reload())
	assert.Equal(t, "memory", store.Current().Source)
	assert.Equal(t, int64(1), store.Current().Version)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file watcher test in short mode")
	}

	path := writeFile(t, t.TempDir(), "data.json", sampleJSON)
	store, err := NewStore(path, quietLogger())
	require.NoError(t, err)

	w, err := NewWatcher(store, quietLogger(), 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"fresh"}]`), 0o644))

	select {
	case err := <-w.Reloaded():
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload within timeout")
	}
	assert.Equal(t, "fresh", store.Current().Episodes[0].Title)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop within timeout")
	}
}

func TestWatcherRequiresFile(t *testing.T) {
	_, err := NewWatcher(NewStaticStore(nil), quietLogger(), 0)
	assert.Error(t, err)
}
