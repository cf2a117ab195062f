// Package format renders an *ast.Root back to KSON source text, in one of
// four styles, preserving every comment the parser attached as trivia.
// Formatting walks the AST rather than the lowered value.Value precisely
// because the value model has already thrown the comments away.
package format

import (
	"strconv"
	"strings"

	"github.com/kson-lang/kson/internal/kson/ast"
	"github.com/kson-lang/kson/internal/kson/embed"
)

// Style selects one of four surface renderings of the same document.
type Style int

const (
	// Plain omits the outer braces of a root-level object and keeps
	// opening braces on the same line as their key, the loosest/most
	// human-typed style.
	Plain Style = iota
	// Delimited always shows every container's braces/brackets, including
	// at the root.
	Delimited
	// Compact renders the whole document on one line, comments dropped
	// (there is nowhere to put them on a single line).
	Compact
	// Classic is pretty-printed JSON-compatible output: double-quoted
	// keys and strings, bracketed lists, commas between elements.
	Classic
)

// Indent selects between space and tab indentation.
type Indent struct {
	Tabs   bool
	Spaces int // ignored when Tabs is set; 0 defaults to 2
}

// EmbedRule targets strings at paths matching PathPattern (a
// JSON-Pointer-glob such as "/a/b/*" or "/a/**") for embed-block
// rendering, using Tag (empty renders an untagged block) instead of the
// ordinary quoted-string form. When multiple rules match the same path,
// the last one wins.
type EmbedRule struct {
	PathPattern string
	Tag         string
}

// Options configures the formatter.
type Options struct {
	Style Style
	// IndentSize is a legacy spaces-per-level setting, consulted only when
	// IndentKind.Spaces is left at its zero value; prefer IndentKind.
	IndentSize int
	IndentKind Indent
	EmbedRules []EmbedRule
}

func (o Options) indentUnit() string {
	if o.IndentKind.Tabs {
		return "\t"
	}
	n := o.IndentKind.Spaces
	if n <= 0 {
		n = o.IndentSize
	}
	if n <= 0 {
		n = 2
	}
	return strings.Repeat(" ", n)
}

// Format renders root per opts.
func Format(root *ast.Root, opts Options) string {
	f := &formatter{opts: opts, unit: opts.indentUnit()}
	if opts.Style == Compact {
		f.writeCompact(root.Value)
		return f.b.String()
	}

	omitRootBraces := opts.Style == Plain
	if obj, ok := root.Value.(*ast.Object); ok && omitRootBraces {
		f.writeObjectBody(obj, 0, []string{})
	} else {
		f.writeValue(root.Value, 0, []string{})
	}
	for _, c := range root.EOFTrivia {
		f.newline()
		f.writeString("# " + c)
	}
	return strings.TrimRight(f.b.String(), "\n") + "\n"
}

type formatter struct {
	b    strings.Builder
	opts Options
	unit string
}

func (f *formatter) writeString(s string) { f.b.WriteString(s) }
func (f *formatter) newline()              { f.b.WriteByte('\n') }
func (f *formatter) indent(depth int) {
	for i := 0; i < depth; i++ {
		f.writeString(f.unit)
	}
}

func (f *formatter) writeLeading(depth int, trivia ast.Trivia) {
	for _, c := range trivia.LeadingComments {
		f.indent(depth)
		f.writeString("# " + c)
		f.newline()
	}
}

func (f *formatter) writeTrailing(trivia ast.Trivia) {
	if trivia.TrailingComment != "" {
		f.writeString(" # " + trivia.TrailingComment)
	}
}

func (f *formatter) braceOnNewLine() bool { return f.opts.Style == Classic }
func (f *formatter) forceCommas() bool    { return f.opts.Style == Classic }
func (f *formatter) forceQuotes() bool    { return f.opts.Style == Classic }
func (f *formatter) forceBrackets() bool  { return f.opts.Style == Classic || f.opts.Style == Delimited }

func (f *formatter) writeValue(n ast.Node, depth int, path []string) {
	switch v := n.(type) {
	case *ast.Object:
		f.writeObject(v, depth, path)
	case *ast.List:
		f.writeList(v, depth, path)
	case *ast.String:
		if rule := f.matchEmbedRule(path); rule != nil {
			f.writeEmbedBody(rule.Tag, v.Decoded, depth)
			return
		}
		f.writeString(f.renderString(v))
	case *ast.Number:
		f.writeString(v.Raw)
	case *ast.Boolean:
		f.writeString(strconv.FormatBool(v.Value))
	case *ast.Null:
		f.writeString("null")
	case *ast.EmbedBlock:
		f.writeEmbed(v, depth)
	case *ast.Error:
		f.writeString(v.Message)
	}
}

// renderString renders a string node, forcing double quotes (even for a
// source-unquoted identifier-like string) when the active style demands
// JSON-compatible output.
func (f *formatter) renderString(s *ast.String) string {
	if s.Unquoted && !f.forceQuotes() {
		return s.Decoded
	}
	return `"` + escapeForKSON(s.Decoded) + `"`
}

func escapeForKSON(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (f *formatter) writeObject(obj *ast.Object, depth int, path []string) {
	if len(obj.Properties) == 0 {
		f.writeString("{}")
		return
	}
	if f.braceOnNewLine() && depth > 0 {
		f.newline()
		f.indent(depth)
	}
	f.writeString("{")
	f.newline()
	f.writeObjectBody(obj, depth+1, path)
	f.indent(depth)
	f.writeString("}")
}

func (f *formatter) writeObjectBody(obj *ast.Object, depth int, path []string) {
	for i, p := range obj.Properties {
		f.writeLeading(depth, p.Trivia)
		f.indent(depth)
		key := ""
		if p.Key != nil {
			f.writeString(f.renderString(p.Key))
			key = p.Key.Decoded
		}
		f.writeString(": ")
		f.writeValue(p.Value, depth, appendPath(path, key))
		if f.forceCommas() && i < len(obj.Properties)-1 {
			f.writeString(",")
		}
		f.writeTrailing(p.Trivia)
		f.newline()
	}
}

func (f *formatter) writeList(list *ast.List, depth int, path []string) {
	if list.Style == ast.ListStyleDash && !f.forceBrackets() {
		f.writeDashList(list, depth, path)
		return
	}
	open, close := "[", "]"
	if list.Style == ast.ListStyleAngle && !f.forceBrackets() {
		open, close = "<", ">"
	}
	if len(list.Items) == 0 {
		f.writeString(open + close)
		return
	}
	f.writeString(open)
	f.newline()
	for i, item := range list.Items {
		itemPath := appendPath(path, strconv.Itoa(i))
		f.writeLeading(depth+1, ast.TriviaOf(item))
		f.indent(depth + 1)
		f.writeValue(item, depth+1, itemPath)
		if f.forceCommas() && i < len(list.Items)-1 {
			f.writeString(",")
		}
		f.writeTrailing(ast.TriviaOf(item))
		f.newline()
	}
	f.indent(depth)
	f.writeString(close)
}

func (f *formatter) writeDashList(list *ast.List, depth int, path []string) {
	for i, item := range list.Items {
		if i > 0 {
			f.newline()
		}
		f.writeLeading(depth, ast.TriviaOf(item))
		f.indent(depth)
		f.writeString("- ")
		f.writeValue(item, depth+1, appendPath(path, strconv.Itoa(i)))
		f.writeTrailing(ast.TriviaOf(item))
	}
}

// appendPath grows a JSON-Pointer-glob path by one segment without
// aliasing the caller's backing array.
func appendPath(path []string, seg string) []string {
	if path == nil {
		return nil
	}
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = seg
	return next
}

// matchEmbedRule returns the last embed rule (last-rule-wins) whose
// pattern matches path, or nil. A nil path means the caller can't
// meaningfully address this node (Compact mode: an embed block needs a
// line of its own, which a single-line document can't give it), so rules
// never apply there.
func (f *formatter) matchEmbedRule(path []string) *EmbedRule {
	if path == nil {
		return nil
	}
	var matched *EmbedRule
	for i := range f.opts.EmbedRules {
		if pathGlobMatches(f.opts.EmbedRules[i].PathPattern, path) {
			matched = &f.opts.EmbedRules[i]
		}
	}
	return matched
}

func pathGlobMatches(pattern string, path []string) bool {
	trimmed := strings.TrimPrefix(pattern, "/")
	var segs []string
	if trimmed != "" {
		segs = strings.Split(trimmed, "/")
	}
	return matchSegments(segs, path)
}

func matchSegments(segs, path []string) bool {
	if len(segs) == 0 {
		return len(path) == 0
	}
	switch segs[0] {
	case "**":
		if len(segs) == 1 {
			return true
		}
		for i := 0; i <= len(path); i++ {
			if matchSegments(segs[1:], path[i:]) {
				return true
			}
		}
		return false
	case "*":
		if len(path) == 0 {
			return false
		}
		return matchSegments(segs[1:], path[1:])
	default:
		if len(path) == 0 || path[0] != segs[0] {
			return false
		}
		return matchSegments(segs[1:], path[1:])
	}
}

func (f *formatter) writeEmbed(e *ast.EmbedBlock, depth int) {
	f.writeEmbedBody(e.Tag, e.Body, depth)
}

func (f *formatter) writeEmbedBody(tag, body string, depth int) {
	delimChar, n := selectEmbedDelimiter(body)
	delim := strings.Repeat(string(delimChar), n)
	f.writeString(delim + tag)
	f.newline()
	encoded := embed.Encode(body, delimChar, n, strings.Repeat(f.unit, depth))
	f.writeString(encoded)
	f.indent(depth)
	f.writeString(delim)
}

// selectEmbedDelimiter picks the delimiter character and run length for
// re-emitting body: N = max(2, K+1) where K is the longest run of the
// chosen character already present in body, preferring '%' unless its
// longest run there is longer than '$'s (in which case '$' needs fewer
// escapes).
func selectEmbedDelimiter(body string) (byte, int) {
	percentRun := longestRun(body, '%')
	dollarRun := longestRun(body, '$')
	delim := byte('%')
	k := percentRun
	if percentRun > dollarRun {
		delim = '$'
		k = dollarRun
	}
	n := k + 1
	if n < 2 {
		n = 2
	}
	return delim, n
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// writeCompact renders n with no whitespace or comments, for Style.Compact.
// Embed rules never apply here: an embed block needs its own lines, which
// a single-line render can't provide.
func (f *formatter) writeCompact(n ast.Node) {
	switch v := n.(type) {
	case *ast.Object:
		f.writeString("{")
		for i, p := range v.Properties {
			if i > 0 {
				f.writeString(",")
			}
			if p.Key != nil {
				f.writeString(f.renderString(p.Key))
			}
			f.writeString(":")
			f.writeCompact(p.Value)
		}
		f.writeString("}")
	case *ast.List:
		open, close := "[", "]"
		if v.Style == ast.ListStyleAngle {
			open, close = "<", ">"
		}
		f.writeString(open)
		for i, item := range v.Items {
			if i > 0 {
				f.writeString(",")
			}
			f.writeCompact(item)
		}
		f.writeString(close)
	default:
		f.writeValue(n, 0, nil)
	}
}
