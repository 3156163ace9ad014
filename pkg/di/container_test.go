package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/ssargent/bdat/pkg/config"
	"github.com/ssargent/bdat/pkg/decoder"
	"github.com/ssargent/bdat/pkg/metrics"
	"github.com/ssargent/bdat/pkg/storage"
	"github.com/ssargent/bdat/pkg/trace"
)

const people = `
types:
  person:
    fields:
      - {name: name, type: char, until_zero: true}
      - {name: age, type: u8}
`

func writeLayout(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestNewContainer(t *testing.T) {
	c := NewContainer()

	assert.Equal(t, config.DefaultConfig(), c.Config())
	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Metrics())
	assert.NotNil(t, c.Registry())
}

func TestContainer_Configure(t *testing.T) {
	c := NewContainer()

	cfg := config.DefaultConfig()
	cfg.Logging.Level = "debug"
	require.NoError(t, c.Configure(cfg))
	assert.Same(t, cfg, c.Config())
	assert.True(t, c.Logger().Core().Enabled(zapcore.DebugLevel))

	bad := config.DefaultConfig()
	bad.Logging.Level = "loud"
	assert.Error(t, c.Configure(bad))
	assert.Same(t, cfg, c.Config())
}

func TestContainer_OpenStore(t *testing.T) {
	c := NewContainer()
	c.SetLogger(zaptest.NewLogger(t))

	fs := vfs.NewMem()
	var gotDir string
	c.SetStoreFactory(func(dataDir string, logger *zap.Logger, m *metrics.Metrics) (Store, error) {
		gotDir = dataDir
		return storage.Open(dataDir, storage.WithFS(fs), storage.WithLogger(logger), storage.WithMetrics(m))
	})

	store, err := c.OpenStore()
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, "./data", gotDir)

	id, err := store.Put([]byte("abc"))
	require.NoError(t, err)
	data, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestDefaultStoreFactory(t *testing.T) {
	dir := t.TempDir()

	store, err := DefaultStoreFactory(dir, zap.NewNop(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.DirExists(t, filepath.Join(dir, "blobs"))
}

func TestContainer_Decoder(t *testing.T) {
	c := NewContainer()

	rec := &trace.Recorder{}
	dec, err := c.Decoder(writeLayout(t, people), rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"person"}, dec.Schema().TypeNames())

	_, err = dec.Decode(context.Background(), []byte("Al\x00\x07"), decoder.Request{Type: "person"})
	require.NoError(t, err)
	assert.Len(t, rec.Events(), 4)

	_, err = c.Decoder("")
	assert.Error(t, err)

	c.Config().SchemaPath = writeLayout(t, people)
	_, err = c.Decoder("")
	assert.NoError(t, err)

	_, err = c.Decoder(writeLayout(t, "types: {}"))
	assert.Error(t, err)
}
