package skins

import (
	"skinledger/core/reconcile"
)

// Classifier turns free-text item names into structured metadata. It is
// deterministic, stateless, and total: every input classifies, the
// final misc rule catching whatever nothing else claimed.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier with the default ordered rule set.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules()}
}

// Rules exposes the ordered rule list, mainly for per-rule tests.
func (c *Classifier) Rules() []Rule { return c.rules }

// Classify applies the rules in order and returns the first match's
// extraction. It never fails.
func (c *Classifier) Classify(name string) reconcile.Classification {
	n := parsedName{Raw: name, Norm: Normalize(name)}
	for _, rule := range c.rules {
		if rule.Match(n) {
			return rule.Extract(n)
		}
	}
	// Unreachable: the misc rule always matches.
	return reconcile.Classification{Category: "misc", Subname: stripDecorations(name)}
}

// RuleFor returns the name of the first matching rule, for debugging.
func (c *Classifier) RuleFor(name string) string {
	n := parsedName{Raw: name, Norm: Normalize(name)}
	for _, rule := range c.rules {
		if rule.Match(n) {
			return rule.Name
		}
	}
	return "misc"
}

// IsMultiVariant implements the engine's family marker check.
func (c *Classifier) IsMultiVariant(name string) bool {
	return IsMultiVariant(name)
}
