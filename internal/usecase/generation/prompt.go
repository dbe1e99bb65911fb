package generation

import "github.com/uigenlabs/uigen-backend/internal/entity"

// System prompts per target. They all demand a single fenced code block so
// the extraction step has something predictable to work with.

const promptPreamble = "You are an expert frontend developer. " +
	"The user describes a UI screen or component; you produce working code for it. " +
	"Respond with exactly one fenced code block and no surrounding commentary. " +
	"Do not use external assets; inline any styles the design needs."

var targetPrompts = map[entity.Target]string{
	entity.TargetHTML: promptPreamble +
		" Produce a single self-contained HTML5 document with embedded CSS. " +
		"No JavaScript frameworks; plain JavaScript only if the design requires interactivity.",
	entity.TargetReact: promptPreamble +
		" Produce a single React function component in JSX with hooks. " +
		"Export the component as default. Style with inline styles or a CSS-in-JS object.",
	entity.TargetVue: promptPreamble +
		" Produce a single Vue 3 single-file component using <script setup>. " +
		"Keep template, script and scoped style in one block.",
	entity.TargetSvelte: promptPreamble +
		" Produce a single Svelte component with its script and style sections in one file.",
}

// systemPrompt returns the instruction block for a target
func systemPrompt(target entity.Target) string {
	if p, ok := targetPrompts[target]; ok {
		return p
	}
	return targetPrompts[entity.DefaultTarget]
}
