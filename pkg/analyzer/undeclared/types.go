package undeclared

// Item is a call whose callee could not be resolved.
type Item struct {
	Name        string `json:"name" toon:"name"`
	Line        int    `json:"line" toon:"line"`
	Fingerprint string `json:"fingerprint,omitempty" toon:"fingerprint,omitempty"`
}

// Check names this analyzer in fingerprints and reports.
const Check = "undeclared"
