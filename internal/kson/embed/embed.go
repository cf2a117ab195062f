// Package embed implements the embed-block codec: stripping/restoring the
// minimum shared indentation of an embedded block's body, and
// escaping/unescaping the delimiter-run ambiguity between a content line
// and the block's closing delimiter.
//
// A block is opened by a run of N (N>=2) identical '%' or '$' characters
// and closed by a line whose only non-indentation content is exactly N of
// that same character. A content line that would otherwise read as a
// closer — because it starts with zero or more backslashes followed by a
// run of at least N of the delimiter character — is written with one
// extra leading backslash so the reader can always tell the two apart;
// Decode removes exactly that one backslash.
package embed

import "strings"

// Decode turns the raw lines captured between an embed block's open and
// close delimiters into the block's logical body: minimum indentation
// stripped, escaped delimiter runs restored to their literal form.
func Decode(raw string, delim byte, n int) string {
	lines := splitKeepingEnds(raw)
	indent := minIndent(lines)

	var b strings.Builder
	for _, line := range lines {
		content, ending := splitEnding(line)
		content = stripIndent(content, indent)
		content = unescapeLeadingRun(content, delim, n)
		b.WriteString(content)
		b.WriteString(ending)
	}
	return b.String()
}

// Encode reverses Decode: given a block's logical body and the target
// indent prefix, produces the raw text to place between the delimiters,
// escaping any line whose leading delimiter run would otherwise be
// mistaken for a closer.
func Encode(body string, delim byte, n int, indentPrefix string) string {
	lines := splitKeepingEnds(body)

	var b strings.Builder
	for _, line := range lines {
		content, ending := splitEnding(line)
		content = escapeLeadingRun(content, delim, n)
		if content != "" {
			b.WriteString(indentPrefix)
			b.WriteString(content)
		}
		b.WriteString(ending)
	}
	return b.String()
}

// splitKeepingEnds splits s into lines, each retaining its trailing "\n" or
// "\r\n" (the last line may have none).
func splitKeepingEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func splitEnding(line string) (content, ending string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], line[len(line)-2:]
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], line[len(line)-1:]
	}
	return line, ""
}

// minIndent returns the smallest count of leading space/tab characters
// across all non-blank lines. A tab counts as a single character here
// (unlike the formatter's display-width indent math) because embed bodies
// are stripped and restored byte-for-byte, not re-wrapped.
func minIndent(lines []string) int {
	min := -1
	for _, line := range lines {
		content, _ := splitEnding(line)
		if strings.TrimLeft(content, " \t") == "" {
			continue // blank line: doesn't constrain the shared indent
		}
		n := 0
		for n < len(content) && (content[n] == ' ' || content[n] == '\t') {
			n++
		}
		if min == -1 || n < min {
			min = n
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

func stripIndent(content string, indent int) string {
	n := 0
	for n < indent && n < len(content) && (content[n] == ' ' || content[n] == '\t') {
		n++
	}
	return content[n:]
}

func leadingRun(content string, delim byte) int {
	n := 0
	for n < len(content) && content[n] == delim {
		n++
	}
	return n
}

// leadingBackslashes counts a run of '\' characters at the start of content.
func leadingBackslashes(content string) int {
	n := 0
	for n < len(content) && content[n] == '\\' {
		n++
	}
	return n
}

// unescapeLeadingRun reverses escapeLeadingRun: a line whose content, after
// its leading backslashes, starts with a delimiter run of at least n copies
// was escaped by exactly one extra backslash; remove it.
func unescapeLeadingRun(content string, delim byte, n int) string {
	bs := leadingBackslashes(content)
	if bs == 0 {
		return content
	}
	if leadingRun(content[bs:], delim) >= n {
		return content[1:]
	}
	return content
}

// escapeLeadingRun prepends exactly one backslash when content, after any
// existing leading backslashes, starts with a delimiter run of at least n
// copies — the only shape that could be mistaken for (or collide with) the
// block's closing delimiter.
func escapeLeadingRun(content string, delim byte, n int) string {
	bs := leadingBackslashes(content)
	if leadingRun(content[bs:], delim) >= n {
		return "\\" + content
	}
	return content
}
