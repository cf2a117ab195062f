package diag

import "encoding/json"

// jsonDiagnostic is the wire shape for a Diagnostic, kept separate from the
// in-memory struct so renamed/reordered internal fields never change the
// machine-readable contract.
type jsonDiagnostic struct {
	Code       Code     `json:"code"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	EndLine    int      `json:"endLine"`
	EndColumn  int      `json:"endColumn"`
	Expected   string   `json:"expected,omitempty"`
	Actual     string   `json:"actual,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func (d *Diagnostic) toJSON() jsonDiagnostic {
	return jsonDiagnostic{
		Code:       d.Code,
		Category:   d.Category,
		Severity:   d.Severity,
		Message:    d.Message,
		Line:       d.Location.Start.Line + 1,
		Column:     d.Location.Start.Column + 1,
		EndLine:    d.Location.End.Line + 1,
		EndColumn:  d.Location.End.Column + 1,
		Expected:   d.Expected,
		Actual:     d.Actual,
		Suggestion: d.Suggestion,
	}
}

// MarshalJSON implements json.Marshaler.
func (d *Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.toJSON())
}

// ToJSON renders a Diagnostics list as an indented JSON array.
func (ds Diagnostics) ToJSON() (string, error) {
	out := make([]jsonDiagnostic, len(ds))
	for i, d := range ds {
		out[i] = d.toJSON()
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
