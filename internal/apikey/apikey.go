package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Header is the request header carrying the key.
const Header = "X-API-Key"

const keyBytes = 32

var (
	ErrNoKeys      = errors.New("no API keys configured")
	ErrInvalidHash = errors.New("invalid API key hash")
	ErrEmptyKey    = errors.New("API key is empty")
)

type Verifier interface {
	Verify(key string) bool
}

// KeySet holds the statically issued keys. Plaintext keys are kept only as
// SHA-256 digests; hashed keys are bcrypt hashes produced by HashKey.
type KeySet struct {
	digests [][sha256.Size]byte
	hashes  [][]byte
}

func NewKeySet(keys, hashes []string) (*KeySet, error) {
	ks := &KeySet{}

	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		ks.digests = append(ks.digests, sha256.Sum256([]byte(k)))
	}

	for i, h := range hashes {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("%w at position %d: %v", ErrInvalidHash, i, err)
		}
		ks.hashes = append(ks.hashes, []byte(h))
	}

	if ks.Len() == 0 {
		return nil, ErrNoKeys
	}
	return ks, nil
}

func (ks *KeySet) Len() int {
	return len(ks.digests) + len(ks.hashes)
}

// Verify reports whether key matches any configured key. Plaintext digests
// are all compared so timing does not depend on which key matched.
func (ks *KeySet) Verify(key string) bool {
	if key == "" {
		return false
	}

	sum := sha256.Sum256([]byte(key))
	match := 0
	for i := range ks.digests {
		match |= subtle.ConstantTimeCompare(sum[:], ks.digests[i][:])
	}
	if match == 1 {
		return true
	}

	// A rejected key pays one bcrypt compare per configured hash.
	for _, h := range ks.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			return true
		}
	}
	return false
}

// Generate returns a new random key suitable for handing to a client.
func Generate() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashKey returns the bcrypt hash to store in API_KEY_HASHES.
func HashKey(key string, cost int) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(b), nil
}
