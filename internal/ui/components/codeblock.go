// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the buddy TUI.
package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/buddy-tui/internal/format"
	"github.com/jeranaias/buddy-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders a single fenced code segment with syntax highlighting.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	Style    string // chroma style name, e.g. "monokai"
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
		Style:    "monokai",
	}
}

// Render renders the code block with a language badge and border.
func (c CodeBlock) Render() string {
	code := strings.TrimRight(c.Code, "\n")
	highlighted := highlightCode(code, c.Language, c.Style)

	var header string
	if c.Language != "" && c.Language != format.LanguageUnknown {
		langBadge := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Background(styles.OverlayDim).
			Padding(0, 1).
			Bold(true).
			Render(c.Language)
		header = langBadge + "\n"
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(header + highlighted)
}

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// RenderMessageBody splits a message into text and code segments and renders
// each, highlighting code with chroma. Text segments pass through unchanged.
func RenderMessageBody(text string, maxWidth int, codeStyle string) string {
	segments := format.Segment(text)

	var parts []string
	for _, seg := range segments {
		switch seg.Kind {
		case format.KindCode:
			block := CodeBlock{
				Language: seg.Language,
				Code:     seg.Content,
				MaxWidth: maxWidth,
				Style:    codeStyle,
			}
			parts = append(parts, block.Render())
		default:
			parts = append(parts, strings.TrimRight(seg.Content, "\n"))
		}
	}

	return strings.Join(parts, "\n")
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies ANSI-safe syntax highlighting via chroma.
// Returns the input unchanged if highlighting fails.
func highlightCode(code, language, styleName string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}
