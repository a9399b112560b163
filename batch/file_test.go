package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFile_PrologueOnlyWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links_01.ttl")
	prologue := []string{"@prefix owl: <http://www.w3.org/2002/07/owl#> .", ""}

	f, err := OpenFile(path, true, prologue)
	require.NoError(t, err)
	require.NoError(t, f.WriteLine("a"))
	require.NoError(t, f.Close())

	f, err = OpenFile(path, true, prologue)
	require.NoError(t, err)
	require.NoError(t, f.WriteLine("b"))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@prefix owl: <http://www.w3.org/2002/07/owl#> .\n\na\nb\n", string(data))

	f, err = OpenFile(path, false, prologue)
	require.NoError(t, err)
	require.NoError(t, f.WriteLine("c"))
	require.NoError(t, f.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@prefix owl: <http://www.w3.org/2002/07/owl#> .\n\nc\n", string(data))
}

func TestFile_CloseIsIdempotent(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "x.ttl"), false, nil)
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Error(t, f.WriteLine("late"))
}

func TestOpenFile_MissingDir(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope", "x.ttl"), false, nil)
	assert.Error(t, err)
}
