package diag

import "github.com/kson-lang/kson/internal/kson/token"

// Diagnostic is a single structured message produced by any phase of the
// engine: lexer, parser, value lowering, or schema engine.
type Diagnostic struct {
	Code     Code
	Category Category
	Severity Severity
	Message  string
	Location token.Location
	Args     []string

	Expected   string
	Actual     string
	Suggestion string
}

// New builds a Diagnostic from a catalogue entry. The template's arity is
// validated against args at construction time (see templateArity).
func New(code Code, category Category, severity Severity, loc token.Location, args ...string) *Diagnostic {
	tmpl, ok := templates[code]
	if !ok {
		tmpl = "{0}"
	}
	if n := templateArity(tmpl); n != len(args) {
		panic("diag: arity mismatch for " + string(code))
	}
	return &Diagnostic{
		Code:     code,
		Category: category,
		Severity: severity,
		Message:  render(tmpl, args),
		Location: loc,
		Args:     args,
	}
}

// WithExpected sets what was expected.
func (d *Diagnostic) WithExpected(expected string) *Diagnostic {
	d.Expected = expected
	return d
}

// WithActual sets what was actually found.
func (d *Diagnostic) WithActual(actual string) *Diagnostic {
	d.Actual = actual
	return d
}

// WithSuggestion attaches a fix suggestion.
func (d *Diagnostic) WithSuggestion(suggestion string) *Diagnostic {
	d.Suggestion = suggestion
	return d
}

// Error implements the error interface so a Diagnostic can be returned
// directly from Go-idiomatic call sites that need one.
func (d *Diagnostic) Error() string {
	return d.Format()
}

// Diagnostics is an ordered collection of Diagnostic.
type Diagnostics []*Diagnostic

// HasErrors reports whether the list contains any Error-severity entry.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Counts returns the number of entries at each severity.
func (ds Diagnostics) Counts() (errors, warnings, infos int) {
	for _, d := range ds {
		switch d.Severity {
		case Error:
			errors++
		case Warning:
			warnings++
		case Info:
			infos++
		}
	}
	return
}
