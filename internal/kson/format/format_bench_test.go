package format

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kson-lang/kson/internal/kson/lexer"
	"github.com/kson-lang/kson/internal/kson/parser"
)

var benchmarkSource = func() string {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, `# user %d
user%d: {
  name: "user %d"
  active: true
  tags: [admin, beta]
  scores: [1, 2, 3] # trailing note
}
`, i, i, i)
	}
	return b.String()
}()

func BenchmarkFormatPlain(b *testing.B) {
	toks, _ := lexer.New(benchmarkSource).Lex()
	root, _ := parser.Parse(toks)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Format(root, Options{Style: Plain})
	}
}

func BenchmarkFormatDelimited(b *testing.B) {
	toks, _ := lexer.New(benchmarkSource).Lex()
	root, _ := parser.Parse(toks)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Format(root, Options{Style: Delimited})
	}
}

func BenchmarkFormatCompact(b *testing.B) {
	toks, _ := lexer.New(benchmarkSource).Lex()
	root, _ := parser.Parse(toks)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Format(root, Options{Style: Compact})
	}
}

func BenchmarkFormatClassic(b *testing.B) {
	toks, _ := lexer.New(benchmarkSource).Lex()
	root, _ := parser.Parse(toks)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Format(root, Options{Style: Classic})
	}
}
