// Package syntax resolves per-language syntax highlighting for fenced code
// blocks. A Table turns a (language, line) pair into a sequence of styled
// Tokens; the Markdown Renderer composes those into RenderedLine segments
// the same way it composes every other inline style.
package syntax

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/bleikamp/catmd/internal/termfmt"
)

// Token is one styled run of a tokenized source line.
type Token struct {
	Text       string
	Foreground termfmt.Color
	Background termfmt.Color
	Bold       bool
	Italic     bool
	Underline  bool
}

// Table resolves syntax highlighting for a named language. Highlight
// returns ok=false when lang isn't recognized; the renderer then styles the
// whole line with its default code-block color instead of per-token styles.
type Table interface {
	Highlight(lang, line string) (tokens []Token, ok bool)
}

// ChromaTable is a Table backed by github.com/alecthomas/chroma/v2: lexer
// lookup by language name, a named style for token-to-color translation.
// Grounded on the reference pack's Highlighter (internal/ui/highlight.go),
// generalized from "one highlighter per file path" to "one table, looked up
// per code fence" and from raw ANSI emission to structured Tokens so that
// color composition stays centralized in internal/view.
type ChromaTable struct {
	style  *chroma.Style
	lexers map[string]chroma.Lexer
}

// NewChromaTable builds a Table using the named chroma style (falling back
// to chroma's built-in default when themeName is unknown or empty).
func NewChromaTable(themeName string) *ChromaTable {
	style := styles.Get(themeName)
	if style == nil {
		style = styles.Fallback
	}
	return &ChromaTable{style: style, lexers: make(map[string]chroma.Lexer)}
}

// Highlight tokenizes line using the lexer registered for lang.
func (t *ChromaTable) Highlight(lang, line string) ([]Token, bool) {
	lexer := t.lexerFor(lang)
	if lexer == nil {
		return nil, false
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return nil, false
	}

	var tokens []Token
	for tok := iterator(); tok != chroma.EOF; tok = iterator() {
		text := strings.TrimRight(tok.Value, "\n")
		if text == "" {
			continue
		}

		entry := t.style.Get(tok.Type)
		token := Token{
			Text:      text,
			Bold:      entry.Bold == chroma.Yes,
			Italic:    entry.Italic == chroma.Yes,
			Underline: entry.Underline == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			token.Foreground = termfmt.RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
		}
		if entry.Background.IsSet() {
			token.Background = termfmt.RGB(entry.Background.Red(), entry.Background.Green(), entry.Background.Blue())
		}
		tokens = append(tokens, token)
	}

	return tokens, true
}

func (t *ChromaTable) lexerFor(lang string) chroma.Lexer {
	if lang == "" {
		return nil
	}
	if lexer, cached := t.lexers[lang]; cached {
		return lexer
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		t.lexers[lang] = nil
		return nil
	}
	lexer = chroma.Coalesce(lexer)
	t.lexers[lang] = lexer
	return lexer
}
