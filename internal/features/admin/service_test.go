package admin

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/argon2"
)

// encodeArgon2id строит хеш в том же формате, что scripts/generate_hash.go.
func encodeArgon2id(password string, salt []byte, memory, iterations uint32, parallelism uint8) string {
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

func TestVerifyArgon2id(t *testing.T) {
	salt := []byte("0123456789abcdef")
	encoded := encodeArgon2id("s3cret", salt, 65536, 3, 2)

	assert.True(t, verifyArgon2id("s3cret", encoded))
	assert.False(t, verifyArgon2id("wrong", encoded))
	assert.False(t, verifyArgon2id("", encoded))
}

func TestVerifyArgon2id_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=3,p=2$onlysalt",
		"$argon2id$v=19$bad-params$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$не-base64!$aGFzaA",
	}
	for _, encoded := range cases {
		assert.False(t, verifyArgon2id("s3cret", encoded), "хеш %q не должен проходить", encoded)
	}
}
