package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "pdfsync.toml"))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfsync.toml")

	store, err := NewConfigStore(path)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, path, store.Path())

	// Opening does not create the file.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	err := store.Set("test_key", "test_value")
	require.NoError(t, err)

	val, ok := store.Get("test_key")
	assert.True(t, ok)
	assert.Equal(t, "test_value", val)
}

func TestConfigStore_GetString(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("string_key", "hello world"))
	assert.Equal(t, "hello world", store.GetString("string_key"))

	// Non-existent key
	assert.Equal(t, "", store.GetString("nonexistent"))

	// Wrong type
	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, "", store.GetString("int_key"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, 42, store.GetInt("int_key"))

	assert.Equal(t, 0, store.GetInt("nonexistent"))

	require.NoError(t, store.Set("string_key", "not an int"))
	assert.Equal(t, 0, store.GetInt("string_key"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("rate", 2.5))
	assert.InDelta(t, 2.5, store.GetFloat("rate"), 1e-9)

	require.NoError(t, store.Set("whole", 3))
	assert.InDelta(t, 3.0, store.GetFloat("whole"), 1e-9)

	assert.Zero(t, store.GetFloat("nonexistent"))

	require.NoError(t, store.Set("text", "fast"))
	assert.Zero(t, store.GetFloat("text"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("bool_key", true))
	assert.True(t, store.GetBool("bool_key"))

	require.NoError(t, store.Set("bool_key_false", false))
	assert.False(t, store.GetBool("bool_key_false"))

	assert.False(t, store.GetBool("nonexistent"))

	require.NoError(t, store.Set("string_key", "true"))
	assert.False(t, store.GetBool("string_key"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("list", []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))

	// Reloaded arrays come back as []any.
	store2, err := NewConfigStore(store.Path())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, store2.GetStringSlice("list"))

	assert.Nil(t, store.GetStringSlice("nonexistent"))
}

func TestConfigStore_Persistence(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("splitter.chunk_size", 900))
	require.NoError(t, store.Set("splitter.strategy", "recursive"))
	require.NoError(t, store.Set("embedding.requests_per_second", 1.5))
	require.NoError(t, store.Set("splitter.split_on_regex", false))

	store2, err := NewConfigStore(store.Path())
	require.NoError(t, err)

	assert.Equal(t, 900, store2.GetInt("splitter.chunk_size"))
	assert.Equal(t, "recursive", store2.GetString("splitter.strategy"))
	assert.InDelta(t, 1.5, store2.GetFloat("embedding.requests_per_second"), 1e-9)
	assert.False(t, store2.GetBool("splitter.split_on_regex"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("store.path", "./db"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[store]")
	assert.NotContains(t, string(data), "'store.path'")
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfsync.toml")
	content := `
[ingest]
data_dir = "papers"

[splitter]
chunk_size = 500
chunk_overlap = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "papers", store.GetString("ingest.data_dir"))
	assert.Equal(t, 500, store.GetInt("splitter.chunk_size"))
	assert.Equal(t, 50, store.GetInt("splitter.chunk_overlap"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store := newTestStore(t)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Save_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "pdfsync.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("save_test", "saved_value"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfsync.toml")
	require.NoError(t, os.WriteFile(path, []byte{}, 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_ = store.GetBool(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("key", "original"))
	assert.Equal(t, "original", store.GetString("key"))

	require.NoError(t, store.Set("key", "updated"))
	assert.Equal(t, "updated", store.GetString("key"))
}

func TestConfigStore_KeyConflict(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("store", "flat"))
	err := store.Set("store.path", "./db")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts")
}

// TestNewConfigStore_LoadCorruptedFile tests error handling when loading corrupted TOML
func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfsync.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(path)

	assert.Error(t, err)
	assert.Nil(t, store)
}

// TestConfigStore_Save_Explicit tests the public Save method
func TestConfigStore_Save_Explicit(t *testing.T) {
	store := newTestStore(t)

	store.mu.Lock()
	store.data["manual.key"] = "manual_value"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	store2, err := NewConfigStore(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "manual_value", store2.GetString("manual.key"))
}

// TestConfigStore_Save_WriteFileError tests error handling when WriteFile fails
func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err := store.Set("another", "value")
	assert.Error(t, err)
}

// TestConfigStore_Load_InvalidTOML tests error handling when loading invalid TOML
func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("valid", "data"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"e": true,
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, flat)
}

func TestUnflattenMap(t *testing.T) {
	flat := map[string]any{"a.b": 1, "a.c.d": "x", "e": true}

	nested, err := unflattenMap(flat)
	require.NoError(t, err)

	assert.Equal(t, flat, flattenMap(nested, ""))
}
