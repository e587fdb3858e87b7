package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeOrderInvariant(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
	}{
		{"two descriptors", []string{"G!4", "T!7"}, []string{"T!7", "G!4"}},
		{"duplicates collapse", []string{"G!4", "G!4", "T!7"}, []string{"T!7", "G!4"}},
		{"single", []string{"AT!6"}, []string{"AT!6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Canonicalize(tt.a), Canonicalize(tt.b))
		})
	}
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "", Canonicalize(nil))
	assert.Equal(t, "G!4;T!7", Canonicalize([]string{"T!7", "G!4"}))
}

func TestFingerprintFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^AL[0-9]{11}$`)
	tokens := []string{"G!4", "G!4;T!7", "AT!6", "-!12;C!3"}
	for _, token := range tokens {
		id := Fingerprint(AllelePrefix, token)
		assert.Regexp(t, pattern, id, "token %q", token)
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	a := Fingerprint(AllelePrefix, Canonicalize([]string{"G!4", "T!7"}))
	b := Fingerprint(AllelePrefix, Canonicalize([]string{"T!7", "G!4"}))
	assert.Equal(t, a, b)

	// Different sets produce different ids.
	c := Fingerprint(AllelePrefix, Canonicalize([]string{"G!4"}))
	assert.NotEqual(t, a, c)
}

func TestFingerprintReference(t *testing.T) {
	assert.Equal(t, ReferenceAlleleID, Fingerprint(AllelePrefix, ""))
	assert.Equal(t, ReferenceProteoformID, Fingerprint(ProteoformPrefix, ""))
}

func TestFingerprintPrefixes(t *testing.T) {
	allele := Fingerprint(AllelePrefix, "G!4")
	proteoform := Fingerprint(ProteoformPrefix, "G!4")
	assert.Equal(t, "AL", allele[:2])
	assert.Equal(t, "PF", proteoform[:2])
	// Same token, same digits: only the prefix differs.
	assert.Equal(t, allele[2:], proteoform[2:])
}
