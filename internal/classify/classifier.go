// Package classify maps free-text bank descriptions to revenue-source,
// advisor and client identities using the registry's ordered pattern tables.
package classify

import (
	"errors"

	"github.com/orcap/tms/internal/registry"
)

// ErrUnattributed indicates that no attribution rule matched the description.
// The caller must surface the raw record for manual review; the classifier
// never guesses.
var ErrUnattributed = errors.New("no attribution rule matched")

// Classification is the outcome for one transaction description.
type Classification struct {
	Source     string
	AdvisorID  string
	ClientName string
	Excluded   bool
}

// Classifier evaluates descriptions against a read-only registry.
type Classifier struct {
	reg *registry.Registry
}

// New creates a Classifier.
func New(reg *registry.Registry) *Classifier {
	if reg == nil {
		panic("classify.New: registry is nil")
	}
	return &Classifier{reg: reg}
}

// Classify resolves one bank description. Internal transfers come back with
// Excluded set and nothing else. Otherwise the revenue source is tagged when a
// source rule matches (its absence is not an error), and attribution tries
// client patterns before advisor aliases, client patterns being the more
// specific. Each table is scanned in declared order, first match wins.
func (c *Classifier) Classify(description string) (Classification, error) {
	for _, p := range c.reg.TransferPatterns {
		if p.MatchString(description) {
			return Classification{Excluded: true}, nil
		}
	}

	var out Classification
	for _, rule := range c.reg.RevenueSources {
		if rule.Pattern.MatchString(description) {
			out.Source = rule.Source
			break
		}
	}

	for _, cp := range c.reg.ClientPatterns {
		if cp.Pattern.MatchString(description) {
			out.ClientName = cp.ClientName
			out.AdvisorID = cp.AdvisorID
			return out, nil
		}
	}

	for _, ap := range c.reg.AdvisorPatterns {
		if ap.Pattern.MatchString(description) {
			out.AdvisorID = ap.AdvisorID
			return out, nil
		}
	}

	return Classification{}, ErrUnattributed
}
