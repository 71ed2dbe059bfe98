// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeBlockRenderIncludesCode(t *testing.T) {
	block := NewCodeBlock("go", "func main() {}")
	out := block.Render()
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "go")
}

func TestRenderMessageBodyPassesTextThrough(t *testing.T) {
	out := RenderMessageBody("plain answer, no fences", 80, "monokai")
	assert.Contains(t, out, "plain answer, no fences")
}

func TestRenderMessageBodyRendersMixedContent(t *testing.T) {
	text := "Look at this:\n```python\nprint('hi')\n```\nDone."
	out := RenderMessageBody(text, 80, "monokai")
	assert.Contains(t, out, "Look at this:")
	assert.Contains(t, out, "print")
	assert.Contains(t, out, "Done.")
}

func TestHighlightCodeFallsBackOnUnknownStyle(t *testing.T) {
	out := highlightCode("echo hi", "bash", "no-such-style")
	assert.Contains(t, out, "echo")
}
