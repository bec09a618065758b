package braces

// Status is the kind of delimiter anomaly found.
type Status string

// String implements fmt.Stringer for toon serialization.
func (s Status) String() string {
	return string(s)
}

const (
	ExtraClosingBrace     Status = "extra_closing_brace"
	MissingOpeningBrace   Status = "missing_opening_brace"
	MissingClosingBracket Status = "missing_closing_bracket"
)

// Description returns a short human readable explanation of s.
func (s Status) Description() string {
	switch s {
	case ExtraClosingBrace:
		return "Extra '}' bracket"
	case MissingOpeningBrace:
		return "Missing '{' bracket"
	case MissingClosingBracket:
		return "Missing '}' bracket"
	default:
		return string(s)
	}
}

// Diagnostic is one delimiter anomaly at a line.
type Diagnostic struct {
	Line        int    `json:"line" toon:"line"`
	Status      Status `json:"status" toon:"status"`
	Fingerprint string `json:"fingerprint,omitempty" toon:"fingerprint,omitempty"`
}

// Check names this analyzer in fingerprints and reports.
const Check = "braces"
