package models

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bancor/internal/errors"
)

func TestReferenceGenerator_Generate(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	}
	// entropy bytes map onto the alphabet by modulo 36
	entropy := bytes.NewReader([]byte{0, 1, 26, 35})

	gen := NewReferenceGenerator(clock, entropy)
	ref, err := gen.Generate()
	require.NoError(t, err)
	assert.Equal(t, "TXN-20240131-235959-AB09", ref)

	_, err = ParseReferenceNumber(ref)
	assert.NoError(t, err)
}

func TestReferenceGenerator_UsesUTC(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	clock := func() time.Time {
		// 22:30 local on Jan 1 is 01:30 UTC on Jan 2
		return time.Date(2024, 1, 1, 22, 30, 0, 0, loc)
	}
	gen := NewReferenceGenerator(clock, bytes.NewReader([]byte{0, 0, 0, 0}))

	ref, err := gen.Generate()
	require.NoError(t, err)
	assert.Equal(t, "TXN-20240102-013000-AAAA", ref)
}

func TestParseReferenceNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "valid", in: "TXN-20240131-235959-A7K2"},
		{name: "valid all digits suffix", in: "TXN-20240101-000000-0000"},
		{name: "wrong prefix", in: "TRX-20240131-235959-A7K2", wantErr: true},
		{name: "short suffix", in: "TXN-20240131-235959-A7K", wantErr: true},
		{name: "lowercase suffix", in: "TXN-20240131-235959-a7k2", wantErr: true},
		{name: "missing time", in: "TXN-20240131-A7K2", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReferenceNumber(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidReferenceFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}
