// Package notebook reads and writes Jupyter notebooks in the nbformat v4
// JSON layout. Generated code is appended as labeled code cells, and corrupt
// files on disk are recovered instead of aborting the run.
//
// A notebook file has a single writer per pipeline run; concurrent runs
// against the same path are not coordinated here.
package notebook

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/metrics"
)

// Cell is one nbformat v4 cell. Code cells carry execution_count and
// outputs; markdown cells omit them.
type Cell struct {
	CellType       string         `json:"cell_type"`
	Metadata       map[string]any `json:"metadata"`
	Source         []string       `json:"source"`
	ExecutionCount *int           `json:"execution_count,omitempty"`
	Outputs        []any          `json:"outputs,omitempty"`
}

// Notebook is an nbformat v4 document.
type Notebook struct {
	Cells         []Cell         `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// New returns an empty v4 notebook.
func New() *Notebook {
	return &Notebook{
		Cells:         []Cell{},
		Metadata:      map[string]any{},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}

// Load reads the notebook at path. A missing file yields a fresh notebook.
// Corrupt JSON is run through jsonrepair; if the result still does not look
// like a notebook, the file is replaced with a fresh one and the recovery is
// counted. The returned bool reports whether recovery happened.
func Load(path string) (*Notebook, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "read notebook")
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err == nil && nb.NBFormat == 4 {
		if nb.Cells == nil {
			nb.Cells = []Cell{}
		}
		if nb.Metadata == nil {
			nb.Metadata = map[string]any{}
		}
		return &nb, false, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr == nil {
		var nb Notebook
		if err := json.Unmarshal([]byte(repaired), &nb); err == nil && nb.NBFormat == 4 {
			log.Printf("notebook %s was corrupt, repaired in place", path)
			metrics.NotebookRecoveries.Inc()
			if nb.Cells == nil {
				nb.Cells = []Cell{}
			}
			if nb.Metadata == nil {
				nb.Metadata = map[string]any{}
			}
			return &nb, true, nil
		}
	}

	log.Printf("notebook %s was unreadable, starting fresh", path)
	metrics.NotebookRecoveries.Inc()
	return New(), true, nil
}

// AppendCode adds a code cell whose first line is the label rendered as a
// comment heading, followed by the code itself.
func (nb *Notebook) AppendCode(label, code string) {
	heading := "###" + strings.ReplaceAll(label, "\n", "\n##")
	count := 0
	nb.Cells = append(nb.Cells, Cell{
		CellType:       "code",
		Metadata:       map[string]any{},
		Source:         splitSource(heading + "\n" + code),
		ExecutionCount: &count,
		Outputs:        []any{},
	})
}

// Save writes the notebook to path, creating parent directories as needed.
func (nb *Notebook) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create notebook directory")
	}
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return errors.Wrap(err, "encode notebook")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write notebook")
}

// splitSource renders text as nbformat source lines, each keeping its
// trailing newline except the last.
func splitSource(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
