// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentNoFences(t *testing.T) {
	text := "Just a plain explanation.\nNo code here."
	segments := Segment(text)
	require.Len(t, segments, 1)
	assert.Equal(t, KindText, segments[0].Kind)
	assert.Equal(t, text, segments[0].Content)
}

func TestSegmentEmptyInput(t *testing.T) {
	assert.Empty(t, Segment(""))
}

func TestSegmentProseAndCode(t *testing.T) {
	text := "The handler looks like this:\n```go\nfunc main() {}\n```\nCall it from init."
	segments := Segment(text)
	require.Len(t, segments, 3)

	assert.Equal(t, KindText, segments[0].Kind)
	assert.Equal(t, "The handler looks like this:\n", segments[0].Content)

	assert.Equal(t, KindCode, segments[1].Kind)
	assert.Equal(t, "go", segments[1].Language)
	assert.Equal(t, "func main() {}", segments[1].Content)

	assert.Equal(t, KindText, segments[2].Kind)
	assert.Equal(t, "\nCall it from init.", segments[2].Content)
}

func TestSegmentCodeTrailingNewlineStripped(t *testing.T) {
	segments := Segment("```python\nprint(1)\n\n```")
	require.Len(t, segments, 1)
	assert.Equal(t, "print(1)\n", segments[0].Content)
}

func TestSegmentEmptyCodeBody(t *testing.T) {
	segments := Segment("```sh\n```")
	require.Len(t, segments, 1)
	assert.Equal(t, KindCode, segments[0].Kind)
	assert.Equal(t, "", segments[0].Content)
}

func TestSegmentUnterminatedFence(t *testing.T) {
	segments := Segment("Here you go:\n```rust\nfn main() {}")
	require.Len(t, segments, 2)
	assert.Equal(t, KindText, segments[0].Kind)
	assert.Equal(t, KindCode, segments[1].Kind)
	assert.Equal(t, "rust", segments[1].Language)
	assert.Equal(t, "fn main() {}", segments[1].Content)
}

func TestSegmentUntaggedFenceDetection(t *testing.T) {
	segments := Segment("```\npackage main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(1) }\n```")
	require.Len(t, segments, 1)
	assert.Equal(t, KindCode, segments[0].Kind)
	assert.NotEmpty(t, segments[0].Language)
}

func TestSegmentUntaggedUndetectableIsUnknown(t *testing.T) {
	// An untagged fence with an empty body has nothing to analyze.
	segments := Segment("```\n```")
	require.Len(t, segments, 1)
	assert.Equal(t, LanguageUnknown, segments[0].Language)

	// Whatever chroma makes of line noise, the language must never be empty.
	noise := Segment("```\n§§§\n```")
	require.Len(t, noise, 1)
	assert.NotEmpty(t, noise[0].Language)
}

func TestSegmentMultipleBlocks(t *testing.T) {
	text := "first\n```go\na := 1\n```\nmiddle\n```js\nlet b = 2;\n```\nlast"
	segments := Segment(text)
	require.Len(t, segments, 5)
	assert.Equal(t, "go", segments[1].Language)
	assert.Equal(t, "js", segments[3].Language)
	assert.Equal(t, "\nmiddle\n", segments[2].Content)
}

func TestJoinRoundTrip(t *testing.T) {
	cases := []string{
		"no fences at all",
		"prose\n```go\nfunc f() {}\n```\nmore prose",
		"```py\nx = 1\n```",
		"a\n```\nuntagged\n```\nb",
		"lead\n```go\na := 1\n```\nmid\n```js\nlet b;\n```\ntail\n",
		"```go\ncode with\n\nblank lines\n```",
	}

	for _, text := range cases {
		assert.Equal(t, text, Join(Segment(text)), "round trip for %q", text)
	}
}

func TestJoinRoundTripNormalizesEmptyBody(t *testing.T) {
	// The one permitted divergence: a single trailing-newline normalization
	// inside the code body.
	assert.Equal(t, "```sh\n\n```", Join(Segment("```sh\n```")))
}
