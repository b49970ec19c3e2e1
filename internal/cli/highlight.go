// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// highlight applies syntax highlighting for language. The source is
// returned unchanged when no lexer fits or formatting fails.
func highlight(source, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return buf.String()
}

// writeHighlighted writes source to w, highlighted only when w is a color
// terminal.
func writeHighlighted(w io.Writer, source, language string) {
	if isTerminal(w) && ColorsEnabled() {
		source = highlight(source, language)
	}
	io.WriteString(w, source)
	if !strings.HasSuffix(source, "\n") {
		io.WriteString(w, "\n")
	}
}
