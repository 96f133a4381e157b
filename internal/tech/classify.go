package tech

import "strings"

// Kind is the outcome class of a classification.
type Kind int

const (
	// Unknown means no scaffolding strategy applies.
	Unknown Kind = iota
	// Known is an exact table match.
	Known
	// Heuristic means the technology looks like a package of an ecosystem.
	Heuristic
)

func (k Kind) String() string {
	switch k {
	case Known:
		return "known"
	case Heuristic:
		return "heuristic"
	default:
		return "unknown"
	}
}

// Classification is derived from a technology string on every dispatch.
type Classification struct {
	Kind      Kind
	Ecosystem Ecosystem
	Variant   string
	// Tech is the original, verbatim technology string.
	Tech string
	// Package is the matched package name for heuristic results.
	Package string
}

// Key returns the lower-cased technology used for matching.
func (c Classification) Key() string { return normalize(c.Tech) }

func (c Classification) String() string {
	switch c.Kind {
	case Known:
		return string(c.Ecosystem) + "/" + c.Variant
	case Heuristic:
		return string(c.Ecosystem) + " (guessed from " + c.Package + ")"
	default:
		return "no specific scaffolding"
	}
}

// Classify uses the embedded table.
func Classify(tech string) Classification {
	return DefaultTable().Classify(tech)
}

// Classify maps tech to a strategy: exact alias match first, then the
// package substring heuristic in table order, else Unknown.
func (t *Table) Classify(tech string) Classification {
	key := normalize(tech)
	out := Classification{Kind: Unknown, Tech: tech}
	if key == "" {
		return out
	}

	if e, ok := t.index[key]; ok {
		out.Kind = Known
		out.Ecosystem = e.ecosystem
		out.Variant = e.variant
		return out
	}

	for _, eco := range t.Ecosystems {
		if pkg, ok := matchPackage(eco.Packages, key); ok {
			out.Kind = Heuristic
			out.Ecosystem = eco.Name
			out.Variant = VariantGeneric
			out.Package = pkg
			return out
		}
	}
	return out
}

func matchPackage(packages []string, key string) (string, bool) {
	for _, p := range packages {
		if p != "" && strings.Contains(key, normalize(p)) {
			return p, true
		}
	}
	return "", false
}
