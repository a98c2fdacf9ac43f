package store

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBase32Length(t *testing.T) {
	got := EncodeBase32(make([]byte, 32))
	require.Len(t, got, PathHashLength)
	for _, c := range got {
		assert.Contains(t, base32Alphabet, string(c))
	}
}

func TestEncodeBase32Deterministic(t *testing.T) {
	data := []byte("0123456789abcdefghij")
	assert.Equal(t, EncodeBase32(data), EncodeBase32(data))
}

func TestEncodeBase32ExcludesConfusableLetters(t *testing.T) {
	for _, c := range []string{"e", "o", "u", "t"} {
		assert.NotContains(t, base32Alphabet, c)
	}
}

func TestSerializeATermDeterministicOrdering(t *testing.T) {
	d := DerivationATerm{
		Outputs: map[string]string{"out": "", "dev": ""},
		Env:     map[string]string{"b": "2", "a": "1"},
		System:  "x86_64-linux",
		Builder: "/bin/sh",
		Args:    []string{"-c", "true"},
	}

	require.Equal(t, SerializeATerm(d), SerializeATerm(d))
	assert.True(t, strings.HasPrefix(SerializeATerm(d), "Derive("))
	// Env keys must appear in sorted order regardless of map iteration order.
	assert.Less(t, strings.Index(SerializeATerm(d), `"a"`), strings.Index(SerializeATerm(d), `"b"`))
}

func TestOutputPathShape(t *testing.T) {
	digest := HashDerivation(`Derive([],[],[],"x86_64-linux","/bin/sh",[],[])`)
	path := OutputPath(digest, "hello")

	require.True(t, strings.HasPrefix(path, Dir+"/"))
	assert.True(t, strings.HasSuffix(path, "-hello"))
	assert.Regexp(t, regexp.MustCompile(`^/nix/store/[0-9a-df-np-sv-z]{52}-hello$`), path)
}
