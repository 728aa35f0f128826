// Package structured extracts machine-readable values from free-form LLM
// responses. Models are asked to answer in YAML; this package tolerates
// fenced code blocks, stray prose around the payload, and JSON fallbacks.
package structured

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// ParseResponse parses LLM response content into the target type T,
// trying YAML first and JSON as fallback.
func ParseResponse[T any](responseContent string) (*T, error) {
	var result T

	if yamlContent := ExtractYAML(responseContent); yamlContent != "" {
		if err := yaml.Unmarshal([]byte(yamlContent), &result); err == nil {
			return &result, nil
		}
	}

	if jsonContent := ExtractJSON(responseContent); jsonContent != "" {
		if err := json.Unmarshal([]byte(jsonContent), &result); err == nil {
			return &result, nil
		}
	}

	return nil, errors.New("failed to parse response as YAML or JSON")
}

// ExtractYAML extracts YAML content from an LLM response. It prefers a
// ```yaml fenced block, then any fenced block, then bare key: value lines.
func ExtractYAML(response string) string {
	if block := extractFenced(response, "yaml"); block != "" {
		return block
	}
	if block := extractFenced(response, ""); block != "" {
		return block
	}

	// No fences; collect contiguous lines that look like YAML mappings.
	var yamlLines []string
	inYAML := false
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inYAML {
			if strings.Contains(trimmed, ":") && !strings.HasPrefix(trimmed, "http") {
				inYAML = true
			} else {
				continue
			}
		}
		if trimmed != "" && !strings.Contains(trimmed, ":") &&
			!strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "#") &&
			!strings.HasPrefix(line, " ") {
			break
		}
		yamlLines = append(yamlLines, line)
	}
	return strings.TrimSpace(strings.Join(yamlLines, "\n"))
}

// ExtractJSON extracts a JSON object from an LLM response: a ```json fenced
// block first, then the first balanced top-level object.
func ExtractJSON(response string) string {
	if block := extractFenced(response, "json"); block != "" {
		return block
	}
	if block := extractFenced(response, ""); strings.HasPrefix(block, "{") || strings.HasPrefix(block, "[") {
		return block
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return ""
}

// extractFenced returns the content of the first ```lang fenced block, with
// an empty lang matching any fence.
func extractFenced(response, lang string) string {
	marker := "```" + lang
	start := strings.Index(response, marker)
	if start == -1 {
		return ""
	}
	start += len(marker)
	if lang == "" {
		// Skip a language identifier on the fence line, if any.
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
	}
	end := strings.Index(response[start:], "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(response[start : start+end])
}
