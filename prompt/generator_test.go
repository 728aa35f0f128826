package prompt

import (
	"strings"
	"testing"
)

type sampleVerdict struct {
	Verdict string `yaml:"verdict" description:"either \"valid\" or \"invalid\""`
	Issues  string `yaml:"issues" description:"short list of problems found"`
	hidden  int    //nolint:unused
}

func TestGenerateStructuredPrompt(t *testing.T) {
	got := GenerateStructuredPrompt[sampleVerdict]()

	for _, want := range []string{
		"```yaml",
		"verdict: ",
		"issues: ",
		"either \"valid\" or \"invalid\"",
		"short list of problems found",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}

	if strings.Contains(got, "hidden") {
		t.Error("unexported field leaked into the prompt")
	}
}

func TestGenerateStructuredPrompt_NonStruct(t *testing.T) {
	got := GenerateStructuredPrompt[string]()
	if !strings.Contains(got, "string") {
		t.Errorf("fallback prompt should mention the type, got %q", got)
	}
}
