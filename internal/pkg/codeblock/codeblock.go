// Package codeblock extracts fenced code snippets from model output.
// Chat models tend to wrap code in markdown fences and surround it with
// prose; callers only want the code.
package codeblock

import "strings"

// Block is a fenced code snippet
type Block struct {
	Language string
	Code     string
}

// Extract returns the first fenced code block in text. The language tag on
// the opening fence is preserved. An unterminated fence is treated as
// running to the end of the text.
func Extract(text string) (Block, bool) {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			continue
		}

		lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))

		var body []string
		closed := false
		for _, inner := range lines[i+1:] {
			if strings.TrimSpace(inner) == "```" {
				closed = true
				break
			}
			body = append(body, inner)
		}

		// An opening fence with no content at all is not a block
		if !closed && len(body) == 0 {
			return Block{}, false
		}

		return Block{
			Language: lang,
			Code:     strings.TrimRight(strings.Join(body, "\n"), "\n"),
		}, true
	}

	return Block{}, false
}

// ExtractOrRaw returns the first fenced block's code, or the trimmed input
// when no fence is present (some models answer with bare code). A dangling
// fence on the last line is dropped rather than returned as code.
func ExtractOrRaw(text string) string {
	if block, ok := Extract(text); ok {
		return block.Code
	}

	trimmed := strings.TrimSpace(text)
	idx := strings.LastIndex(trimmed, "\n")
	if strings.HasPrefix(strings.TrimSpace(trimmed[idx+1:]), "```") {
		trimmed = strings.TrimSpace(trimmed[:idx+1])
	}
	return trimmed
}
