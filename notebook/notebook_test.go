package notebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadforge/cadforge/metrics"
)

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.ipynb")

	nb, recovered, err := Load(path)
	require.NoError(t, err)
	assert.False(t, recovered)
	assert.Equal(t, 4, nb.NBFormat)
	assert.Empty(t, nb.Cells)
}

func TestLoadUnreadableFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("\x00\x01 not json at all"), 0o644))

	before := testutil.ToFloat64(metrics.NotebookRecoveries)
	nb, recovered, err := Load(path)
	require.NoError(t, err)
	assert.True(t, recovered)
	assert.Empty(t, nb.Cells)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotebookRecoveries))

	nb.AppendCode("hollow cylinder", "import cadquery as cq")
	require.NoError(t, nb.Save(path))

	reloaded, recovered, err := Load(path)
	require.NoError(t, err)
	assert.False(t, recovered)
	require.Len(t, reloaded.Cells, 1)
}

func TestAppendCodePreservesExistingCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.ipynb")

	nb := New()
	nb.AppendCode("first query", "print(1)")
	require.NoError(t, nb.Save(path))

	nb, recovered, err := Load(path)
	require.NoError(t, err)
	require.False(t, recovered)
	nb.AppendCode("second query", "print(2)")
	require.NoError(t, nb.Save(path))

	nb, _, err = Load(path)
	require.NoError(t, err)
	require.Len(t, nb.Cells, 2)
	assert.Contains(t, strings.Join(nb.Cells[0].Source, ""), "print(1)")
	assert.Contains(t, strings.Join(nb.Cells[1].Source, ""), "print(2)")
}

func TestAppendCodeLabel(t *testing.T) {
	nb := New()
	nb.AppendCode("make a gear\nwith 20 teeth", "result = gear(20)")

	require.Len(t, nb.Cells, 1)
	cell := nb.Cells[0]
	assert.Equal(t, "code", cell.CellType)
	source := strings.Join(cell.Source, "")
	assert.Equal(t, "###make a gear\n##with 20 teeth\nresult = gear(20)", source)
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query", "nested", "result.ipynb")

	nb := New()
	nb.AppendCode("q", "pass")
	require.NoError(t, nb.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
