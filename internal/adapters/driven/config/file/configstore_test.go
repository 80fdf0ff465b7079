package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".riskanalyzer", "config.toml"), store.Path())
}

func TestConfigStore_Getters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.provider", "openai"))
	require.NoError(t, store.Set("analysis.top_k", int64(8)))
	require.NoError(t, store.Set("analysis.temperature", 0.3))

	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{"string", func(t *testing.T) { assert.Equal(t, "openai", store.GetString("ai.provider")) }},
		{"string wrong type", func(t *testing.T) { assert.Equal(t, "", store.GetString("analysis.top_k")) }},
		{"int", func(t *testing.T) { assert.Equal(t, 8, store.GetInt("analysis.top_k")) }},
		{"int wrong type", func(t *testing.T) { assert.Equal(t, 0, store.GetInt("ai.provider")) }},
		{"float", func(t *testing.T) { assert.InDelta(t, 0.3, store.GetFloat("analysis.temperature"), 1e-9) }},
		{"float widens int", func(t *testing.T) { assert.InDelta(t, 8.0, store.GetFloat("analysis.top_k"), 1e-9) }},
		{"missing", func(t *testing.T) {
			val, ok := store.Get("paths.output")
			assert.False(t, ok)
			assert.Nil(t, val)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}

func TestConfigStore_Keys_Sorted(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("paths.target", "t"))
	require.NoError(t, store.Set("ai.provider", "ollama"))
	require.NoError(t, store.Set("analysis.top_k", 3))

	assert.Equal(t, []string{"ai.provider", "analysis.top_k", "paths.target"}, store.Keys())
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.provider", "openai"))
	require.NoError(t, store.Set("ai.llm_model", "gpt-4o"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ai]")
	assert.Contains(t, string(data), "provider = 'openai'")
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("paths.historical", "history"))
	require.NoError(t, store.Set("analysis.max_tokens", 2000))
	require.NoError(t, store.Set("analysis.temperature", 0.7))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "history", reopened.GetString("paths.historical"))
	assert.Equal(t, 2000, reopened.GetInt("analysis.max_tokens"))
	assert.InDelta(t, 0.7, reopened.GetFloat("analysis.temperature"), 1e-9)
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[ai]\nprovider = \"ollama\"\nbase_url = \"http://gpu:11434\"\n\n[analysis]\ntop_k = 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("ai.provider"))
	assert.Equal(t, "http://gpu:11434", store.GetString("ai.base_url"))
	assert.Equal(t, 4, store.GetInt("analysis.top_k"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Set_WriteErrorRollsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("kept", "value"))

	// Replace the file with a directory so the write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("kept", "changed"))
	assert.Error(t, store.Set("added", "value"))

	assert.Equal(t, "value", store.GetString("kept"))
	_, ok := store.Get("added")
	assert.False(t, ok)
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestFlattenAndNestMap(t *testing.T) {
	flat := map[string]any{
		"ai.provider":    "openai",
		"analysis.top_k": int64(5),
		"root":           true,
	}

	nested := nestMap(flat)
	assert.Equal(t, map[string]any{
		"ai":       map[string]any{"provider": "openai"},
		"analysis": map[string]any{"top_k": int64(5)},
		"root":     true,
	}, nested)
	assert.Equal(t, flat, flattenMap(nested, ""))
}

func TestNestMap_LeafWinsOverTable(t *testing.T) {
	nested := nestMap(map[string]any{"ai": "x", "ai.provider": "openai"})
	assert.Equal(t, map[string]any{"ai": "x"}, nested)
}
