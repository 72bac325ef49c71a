package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDomain is returned when a value is outside the closed domain set
var ErrUnknownDomain = errors.New("unknown domain")

// Domain is one of the three fixed career tracks. The zero value means "no domain".
type Domain uint8

const (
	NoDomain Domain = iota
	FullStack
	AiMl
	Ece
)

// Domains lists every domain in canonical order. Ties are always broken in this order.
var Domains = []Domain{FullStack, AiMl, Ece}

var domainNames = map[Domain]string{
	FullStack: "Full Stack",
	AiMl:      "AI/ML",
	Ece:       "ECE",
}

var domainKeys = map[Domain]string{
	FullStack: "fullstack",
	AiMl:      "aiml",
	Ece:       "ece",
}

// String returns the wire name ("Full Stack", "AI/ML", "ECE")
func (d Domain) String() string {
	if name, ok := domainNames[d]; ok {
		return name
	}
	return ""
}

// Key returns a stable lowercase identifier used for metric labels and badge prefixes
func (d Domain) Key() string {
	return domainKeys[d]
}

// Valid reports whether d is one of the three known domains
func (d Domain) Valid() bool {
	_, ok := domainNames[d]
	return ok
}

// ParseDomain converts a wire name or key into a Domain.
// Accepts "Full Stack", "AI/ML", "ECE" and the keys "fullstack", "aiml", "ece".
func ParseDomain(s string) (Domain, error) {
	trimmed := strings.TrimSpace(s)
	for _, d := range Domains {
		if trimmed == domainNames[d] || strings.EqualFold(trimmed, domainKeys[d]) {
			return d, nil
		}
	}
	return NoDomain, fmt.Errorf("%w: %q", ErrUnknownDomain, s)
}

// MarshalText implements encoding.TextMarshaler. NoDomain encodes as "".
func (d Domain) MarshalText() ([]byte, error) {
	if d == NoDomain {
		return []byte{}, nil
	}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDomain, d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. "" decodes to NoDomain.
func (d *Domain) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = NoDomain
		return nil
	}
	parsed, err := ParseDomain(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Tier is the seniority band derived from a score
type Tier string

const (
	TierJunior   Tier = "Junior"
	TierMidLevel Tier = "Mid-Level"
	TierSenior   Tier = "Senior"
)
