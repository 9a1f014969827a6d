package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

var genTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func writeRegistry(t *testing.T, path string, entities ...types.Entity) {
	t.Helper()
	require.NoError(t, exchange.SaveRegistryFile(path, entities, genTime))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	reg := filepath.Join(dir, exchange.RegistryFileName)
	out := filepath.Join(dir, "out")
	writeRegistry(t, reg,
		types.Entity{ID: "a", Name: "Raw Material", Type: "raw-material"},
		types.Entity{ID: "b", Name: "Supplier", Type: "supplier"},
	)

	paths, err := Generate(reg, out, "", genTime)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(out, exchange.SchemasFileName),
		filepath.Join(out, "raw-material.schema.json"),
		filepath.Join(out, "raw-material.d.ts"),
		filepath.Join(out, "supplier.schema.json"),
		filepath.Join(out, "supplier.d.ts"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	paths, err = Generate(reg, out, "sup*", genTime)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestGenerateMissingRegistryWritesEmptyExport(t *testing.T) {
	out := t.TempDir()
	paths, err := Generate(filepath.Join(out, "absent.json"), out, "", genTime)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schemas": {}`)
}

func TestGenerateBadRegistry(t *testing.T) {
	dir := t.TempDir()
	reg := filepath.Join(dir, exchange.RegistryFileName)
	require.NoError(t, os.WriteFile(reg, []byte(`{"oops": true}`), 0o644))

	_, err := Generate(reg, dir, "", genTime)
	assert.ErrorIs(t, err, exchange.ErrMissingEntities)
}

func TestRunRegeneratesOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("watches the filesystem")
	}
	dir := t.TempDir()
	reg := filepath.Join(dir, exchange.RegistryFileName)
	out := filepath.Join(dir, "out")
	writeRegistry(t, reg, types.Entity{ID: "a", Name: "Widget", Type: "widget"})

	results := make(chan []string, 16)
	w := New(reg, out,
		WithDebounce(20*time.Millisecond),
		WithClock(func() time.Time { return genTime }),
		OnGenerate(func(paths []string, err error) {
			if err == nil {
				results <- paths
			}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case paths := <-results:
		assert.Contains(t, paths, filepath.Join(out, "widget.d.ts"))
	case <-time.After(5 * time.Second):
		t.Fatal("initial generation did not happen")
	}

	writeRegistry(t, reg,
		types.Entity{ID: "a", Name: "Widget", Type: "widget"},
		types.Entity{ID: "b", Name: "Gadget", Type: "gadget"},
	)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case paths := <-results:
			if len(paths) == 5 {
				assert.FileExists(t, filepath.Join(out, "gadget.schema.json"))
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-deadline:
			cancel()
			t.Fatal("change was not picked up")
		}
	}
}
