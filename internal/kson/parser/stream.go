package parser

import (
	"strings"

	"github.com/kson-lang/kson/internal/kson/token"
)

// sigToken is a single non-trivia token plus the comment trivia attached
// to it: a contiguous run of leading '#' lines (blank-line separated runs
// don't attach) and a same-line trailing comment.
type sigToken struct {
	tok      token.Token
	leading  []string
	trailing string
}

// buildStream collapses a raw token stream (which still contains
// WHITESPACE and COMMENT tokens) into significant tokens with their
// comment trivia attached, the same two-pass shape as a hand-rolled
// recursive-descent front end that keeps comments for a round-tripping
// formatter.
func buildStream(raw []token.Token) []sigToken {
	var toks []sigToken
	var pending []string

	n := len(raw)
	for i := 0; i < n; {
		tk := raw[i]
		switch tk.Kind {
		case token.Whitespace:
			if strings.Count(tk.Lexeme, "\n") >= 2 {
				pending = nil
			}
			i++
		case token.Comment:
			pending = append(pending, strings.TrimSpace(strings.TrimPrefix(tk.Lexeme, "#")))
			i++
		default:
			st := sigToken{tok: tk, leading: pending}
			pending = nil
			i++

			j := i
			if j < n && raw[j].Kind == token.Whitespace && !strings.Contains(raw[j].Lexeme, "\n") {
				j++
			}
			if j < n && raw[j].Kind == token.Comment {
				st.trailing = strings.TrimSpace(strings.TrimPrefix(raw[j].Lexeme, "#"))
				i = j + 1
			}

			toks = append(toks, st)
			if tk.Kind == token.EOF {
				return toks
			}
		}
	}
	return toks
}
