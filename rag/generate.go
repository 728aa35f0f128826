package rag

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/cadforge/cadforge/core"
	"github.com/cadforge/cadforge/llm"
)

const guidelinesFallback = "No guidelines available."

// GenerateNode produces CadQuery code from the prompt template, combining
// the static guideline document with the request. The invalid-code
// back-edge re-enters here and overwrites CodeResponse.
type GenerateNode struct {
	provider       llm.LLMProvider
	guidelinesPath string
}

func NewGenerateNode(provider llm.LLMProvider, guidelinesPath string) *GenerateNode {
	return &GenerateNode{provider: provider, guidelinesPath: guidelinesPath}
}

func (n *GenerateNode) Name() string { return "generate" }

func (n *GenerateNode) Prep(state *PipelineState) (string, error) {
	if state.Query == "" {
		return "", errors.Wrap(core.ErrMissingInput, "query")
	}
	return state.Query, nil
}

func (n *GenerateNode) Exec(ctx context.Context, query string) (string, error) {
	promptText, err := buildGeneratePrompt(n.loadGuidelines(), query)
	if err != nil {
		return "", errors.Wrap(err, "render generation prompt")
	}
	response, err := n.provider.CallLLM(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: promptText},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Content), nil
}

func (n *GenerateNode) Post(state *PipelineState, _ string, code string) (core.Action, error) {
	state.CodeResponse = code
	return core.ActionDefault, nil
}

// loadGuidelines reads the guideline document, substituting a placeholder
// when the file is unreadable so the run continues.
func (n *GenerateNode) loadGuidelines() string {
	data, err := os.ReadFile(n.guidelinesPath)
	if err != nil {
		log.Printf("generate: cannot read guidelines %s: %v", n.guidelinesPath, err)
		return guidelinesFallback
	}
	return string(data)
}
