package codeblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Run("fenced block with language and prose around it", func(t *testing.T) {
		text := "Sure, here is your page:\n\n```html\n<!DOCTYPE html>\n<html></html>\n```\n\nLet me know if you need changes."

		block, ok := Extract(text)
		require.True(t, ok)
		assert.Equal(t, "html", block.Language)
		assert.Equal(t, "<!DOCTYPE html>\n<html></html>", block.Code)
	})

	t.Run("only the first block is returned", func(t *testing.T) {
		text := "```jsx\nconst A = () => null;\n```\nand also\n```css\n.a {}\n```"

		block, ok := Extract(text)
		require.True(t, ok)
		assert.Equal(t, "jsx", block.Language)
		assert.Equal(t, "const A = () => null;", block.Code)
	})

	t.Run("no language tag", func(t *testing.T) {
		block, ok := Extract("```\n<div></div>\n```")
		require.True(t, ok)
		assert.Empty(t, block.Language)
		assert.Equal(t, "<div></div>", block.Code)
	})

	t.Run("unterminated fence runs to the end", func(t *testing.T) {
		block, ok := Extract("```vue\n<template>\n  <div/>\n</template>")
		require.True(t, ok)
		assert.Equal(t, "vue", block.Language)
		assert.Equal(t, "<template>\n  <div/>\n</template>", block.Code)
	})

	t.Run("indented fence is still found", func(t *testing.T) {
		block, ok := Extract("  ```html\n<p>hi</p>\n  ```")
		require.True(t, ok)
		assert.Equal(t, "<p>hi</p>", block.Code)
	})

	t.Run("no fences", func(t *testing.T) {
		_, ok := Extract("just some prose without code")
		assert.False(t, ok)
	})

	t.Run("empty opening fence only", func(t *testing.T) {
		_, ok := Extract("```html")
		assert.False(t, ok)
	})
}

func TestExtractOrRaw(t *testing.T) {
	assert.Equal(t, "<p>hi</p>", ExtractOrRaw("text\n```html\n<p>hi</p>\n```\nmore text"))

	// Bare code answers pass through trimmed
	assert.Equal(t, "<div>bare</div>", ExtractOrRaw("  <div>bare</div>\n"))

	// A dangling fence on the last line is not code
	assert.Equal(t, "<div>cut off</div>", ExtractOrRaw("<div>cut off</div>\n```"))
	assert.Empty(t, ExtractOrRaw("```html"))
	assert.Empty(t, ExtractOrRaw("```"))
}
