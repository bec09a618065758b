package unused

// Item is a variable that is declared but never read.
type Item struct {
	Name        string `json:"name" toon:"name"`
	Line        int    `json:"line" toon:"line"`
	Fingerprint string `json:"fingerprint,omitempty" toon:"fingerprint,omitempty"`
}

// Check names this analyzer in fingerprints and reports.
const Check = "unused"
