// Package policy is the security gate between generation and execution.
// Every script passes the full check before the executor sees it; there is
// no partial acceptance and no automatic rewriting of rejected scripts.
package policy

// Policy configures the validator. The denylist is ordered and
// case-sensitive; the first matching pattern rejects the script.
type Policy struct {
	Version        string    `yaml:"version"`
	Denylist       []Pattern `yaml:"denylist"`
	AllowedImports []string  `yaml:"allowed_imports"`
}

// Pattern is one denylist entry. Matching is plain textual containment
// against the raw script, comments and string literals included.
type Pattern struct {
	Text   string `yaml:"text"`
	Reason string `yaml:"reason"`
}

// Verdict is the outcome of validating one script. On rejection, Pattern
// carries the denylist text (or import path, or write target) that
// triggered it, so the decision can be reproduced from the log.
type Verdict struct {
	Pass    bool
	Pattern string
	Reason  string
}

func pass() Verdict {
	return Verdict{Pass: true}
}

func reject(pattern, reason string) Verdict {
	return Verdict{Pattern: pattern, Reason: reason}
}
