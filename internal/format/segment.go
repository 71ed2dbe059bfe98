// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format turns a raw assistant reply into typed content segments.
//
// Segmentation is pure and recomputed at render time; it never mutates stored
// message text, so its rules can change without migrating any data.
package format

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Kind discriminates segment types.
type Kind int

const (
	// KindText is prose outside any code fence.
	KindText Kind = iota
	// KindCode is the body of a fenced code region.
	KindCode
)

// LanguageUnknown is the language reported when a fence carries no tag and
// the body defeats detection.
const LanguageUnknown = "unknown"

// ContentSegment is one typed chunk of an assistant reply.
type ContentSegment struct {
	Kind     Kind
	Language string // only meaningful for KindCode; LanguageUnknown if undetectable
	Content  string // code segments have a single trailing newline stripped

	// tag is the raw fence tag as written, kept so Join can reproduce the
	// original text even when Language was detected rather than declared.
	tag string
}

// Segment splits text into ordered text and code segments.
//
// Code regions are delimited by lines starting with three backticks; an
// optional language tag follows the opening fence. An unterminated trailing
// fence turns the rest of the input into a code segment. Input with no
// fences yields a single text segment.
func Segment(text string) []ContentSegment {
	if text == "" {
		return nil
	}

	var (
		segments []ContentSegment
		textBuf  strings.Builder
		codeBuf  strings.Builder
		tag      string
		inCode   bool
	)

	flushText := func() {
		if textBuf.Len() > 0 {
			segments = append(segments, ContentSegment{Kind: KindText, Content: textBuf.String()})
			textBuf.Reset()
		}
	}
	flushCode := func() {
		body := strings.TrimSuffix(codeBuf.String(), "\n")
		segments = append(segments, ContentSegment{
			Kind:     KindCode,
			Language: detectLanguage(tag, body),
			Content:  body,
			tag:      tag,
		})
		codeBuf.Reset()
		tag = ""
	}

	rest := text
	for len(rest) > 0 {
		line := rest
		terminator := ""
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			line = rest[:idx]
			terminator = "\n"
			rest = rest[idx+1:]
		} else {
			rest = ""
		}

		switch {
		case strings.HasPrefix(line, "```") && !inCode:
			flushText()
			tag = strings.TrimSpace(strings.TrimPrefix(line, "```"))
			inCode = true
		case strings.HasPrefix(line, "```") && inCode:
			flushCode()
			inCode = false
			// The closing fence's own newline belongs to the following
			// text segment; Join re-emits the fence without it.
			textBuf.WriteString(terminator)
		case inCode:
			codeBuf.WriteString(line)
			codeBuf.WriteString(terminator)
		default:
			textBuf.WriteString(line)
			textBuf.WriteString(terminator)
		}
	}

	if inCode {
		flushCode()
	} else {
		flushText()
	}
	return segments
}

// Join reassembles segments into fenced text. For input with balanced fences,
// Join(Segment(text)) == text up to a single trailing-newline normalization
// inside each code body.
func Join(segments []ContentSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		switch seg.Kind {
		case KindCode:
			b.WriteString("```")
			b.WriteString(seg.tag)
			b.WriteString("\n")
			b.WriteString(seg.Content)
			b.WriteString("\n```")
		default:
			b.WriteString(seg.Content)
		}
	}
	return b.String()
}

// detectLanguage resolves the display language for a code segment: the fence
// tag when present, otherwise chroma's content analysis, otherwise unknown.
func detectLanguage(tag, body string) string {
	if tag != "" {
		return tag
	}
	if body != "" {
		if lexer := lexers.Analyse(body); lexer != nil {
			return strings.ToLower(lexer.Config().Name)
		}
	}
	return LanguageUnknown
}
