package models

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"time"

	"bancor/internal/errors"
)

// Reference numbers look like TXN-20240131-235959-A7K2: UTC date, UTC time,
// and a four character alphanumeric suffix from a cryptographically strong
// source. Second granularity plus a 4-char suffix is not collision-free, so
// generation is paired with a uniqueness probe by the orchestrator.
const (
	referenceAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceSuffixLen = 4
)

var referencePattern = regexp.MustCompile(`^TXN-\d{8}-\d{6}-[A-Z0-9]{4}$`)

// ReferenceGenerator stamps each ledger movement with a human-traceable id.
// The clock and the entropy source are injectable so tests are deterministic.
type ReferenceGenerator struct {
	now     func() time.Time
	entropy io.Reader
}

// NewReferenceGenerator builds a generator. Nil arguments fall back to
// time.Now and crypto/rand.
func NewReferenceGenerator(now func() time.Time, entropy io.Reader) *ReferenceGenerator {
	if now == nil {
		now = time.Now
	}
	if entropy == nil {
		entropy = rand.Reader
	}
	return &ReferenceGenerator{now: now, entropy: entropy}
}

// Generate produces a fresh reference number.
func (g *ReferenceGenerator) Generate() (string, error) {
	suffix := make([]byte, referenceSuffixLen)
	if _, err := io.ReadFull(g.entropy, suffix); err != nil {
		return "", fmt.Errorf("failed to read entropy: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	ts := g.now().UTC()
	return fmt.Sprintf("TXN-%s-%s-%s", ts.Format("20060102"), ts.Format("150405"), suffix), nil
}

// ParseReferenceNumber validates a reference number reconstructed from
// storage.
func ParseReferenceNumber(s string) (string, error) {
	if !referencePattern.MatchString(s) {
		return "", errors.ErrInvalidReferenceFormat
	}
	return s, nil
}
