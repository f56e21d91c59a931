package domain

import (
	"fmt"
	"strings"
)

// Domain names one operation family. The string value is the wire label used by the
// classifier, the health endpoint and the CLI.
type Domain string

const (
	Numeric Domain = "math"
	Tabular Domain = "data"
	Textual Domain = "text"
)

// Domains returns every domain in a fixed order.
func Domains() []Domain {
	return []Domain{Numeric, Tabular, Textual}
}

// ParseDomain accepts a wire label or the long family name, case-insensitively.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "math", "numeric":
		return Numeric, nil
	case "data", "tabular":
		return Tabular, nil
	case "text", "textual":
		return Textual, nil
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// Family is the descriptive name of the domain.
func (d Domain) Family() string {
	switch d {
	case Numeric:
		return "numeric"
	case Tabular:
		return "tabular"
	case Textual:
		return "textual"
	}
	return string(d)
}

func (d Domain) String() string { return string(d) }
