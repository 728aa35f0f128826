package rag

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"

	"github.com/cadforge/cadforge/prompt"
)

// basePreamble is the fixed set of worked examples that always opens the
// retrieved context, before any passages from the vector store.
const basePreamble = `---
Example 1:
Request: Create a cylinder with a 1-inch diameter and 2-inch height.
Output:
import cadquery as cq
result = cq.Workplane("XY").cylinder("2", 0.5, centered=(True, True, False))
---

Example 2:
Request: Create a nut with a 1/2 inch diameter.
Output:
import cadquery as cq
diameter = 0.5
height = 0.25
result = cq.Workplane("XY").circle(diameter / 2).extrude(height)
.faces("<Z").workplane().hole(diameter / 4)
---`

const generateTemplate = `You are an expert in CadQuery and Python. Given the following context, generate **only** valid, functional CadQuery code that follows best practices. Ensure the code does not contain syntax errors and is executable.

Context:
{{.context}}

---

Task: Generate CadQuery code for the following request:
{{.question}}

**Guidelines:**
- Use ` + "`cq.Workplane`" + ` properly.
- Ensure all operations are valid and logically ordered.
- Include necessary imports (` + "`import cadquery as cq`" + `).
- Do not include explanations, only return valid Python code.
- If unsure, return the best possible attempt.
- Use .circle().extrude() instead of .cylinder()
- Use display(object) at the end of the script instead of show() or show_object()
- If creating a symmetrical object, create half of it and use .mirror() to complete it.
- Always ensure that objects are created at the origin (0, 0, 0) unless otherwise specified.

Output only the CadQuery code:`

var codePromptTemplate = prompts.NewPromptTemplate(generateTemplate, []string{"context", "question"})

// buildGeneratePrompt renders the code-generation prompt from the static
// guideline text and the user's request.
func buildGeneratePrompt(guidelines, question string) (string, error) {
	return codePromptTemplate.Format(map[string]any{
		"context":  guidelines,
		"question": question,
	})
}

func buildAnalyzePrompt(query string) string {
	return "Analyze the type of query: " + query
}

func buildDecomposePrompt(query string) string {
	return "Break down this CadQuery task into steps: " + query
}

func buildEvaluatePrompt(query, context string) string {
	return fmt.Sprintf("Rate how relevant this context is to the query: %s\n\nContext: %s\n\n%s",
		query, context, prompt.GenerateStructuredPrompt[ContextVerdict]())
}

func buildVerifyPrompt(code string) string {
	return fmt.Sprintf("Verify the validity of the following CadQuery code:\n\n%s\n\n%s",
		code, prompt.GenerateStructuredPrompt[CodeVerdict]())
}
