// Package password hashes and verifies passwords with argon2id, encoding
// hashes in the PHC string format so parameters can evolve without
// invalidating stored credentials.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	defaultMemory  = 64 * 1024 // KiB
	defaultTime    = 1
	defaultThreads = 4
	defaultSaltLen = 16
	defaultKeyLen  = 32
)

var errMalformedHash = errors.New("password: malformed hash")

// Hasher implements ports.PasswordHasher with argon2id.
type Hasher struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

// NewHasher returns a Hasher with production parameters.
func NewHasher() *Hasher {
	return &Hasher{
		memory:  defaultMemory,
		time:    defaultTime,
		threads: defaultThreads,
		saltLen: defaultSaltLen,
		keyLen:  defaultKeyLen,
	}
}

// Hash derives an argon2id hash of plain and returns it PHC-encoded.
func (h *Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plain matches the encoded hash. Comparison is
// constant-time; any parse failure reads as a mismatch.
func (h *Hasher) Verify(plain, encoded string) bool {
	memory, time, threads, salt, key, err := decode(encoded)
	if err != nil {
		return false
	}
	derived := argon2.IDKey([]byte(plain), salt, time, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(derived, key) == 1
}

func decode(encoded string) (memory, time uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errMalformedHash
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, errMalformedHash
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	return memory, time, threads, salt, key, nil
}
