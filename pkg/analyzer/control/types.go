package control

// Keyword is the control statement missing its block.
type Keyword string

// String implements fmt.Stringer for toon serialization.
func (k Keyword) String() string {
	return string(k)
}

const (
	KeywordIf   Keyword = "IF"
	KeywordElse Keyword = "ELSE"
)

// Item is an if or else whose body is a single statement without braces.
type Item struct {
	Line        int     `json:"line" toon:"line"`
	Keyword     Keyword `json:"keyword" toon:"keyword"`
	Fingerprint string  `json:"fingerprint,omitempty" toon:"fingerprint,omitempty"`
}

// Check names this analyzer in fingerprints and reports.
const Check = "control"
