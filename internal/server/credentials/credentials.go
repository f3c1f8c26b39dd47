// Package credentials hashes and verifies user passwords. It keeps no state
// besides its cost parameters.
//
// New hashes use the configured algorithm. Verification recognises every
// supported encoding, so switching algorithms does not invalidate stored
// hashes:
//
//	argon2id$v=19$m=65536,t=1,p=4$<base64 salt>$<base64 key>
//	$2a$10$...  (bcrypt)
package credentials

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	saltLength   = 16
	keyLength    = 32
	argon2Prefix = "argon2id$"
)

var errMalformedHash = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

// Hasher is what the identity and token services need from a password hasher.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// Manager implements Hasher.
type Manager struct {
	algorithm  string
	argon2     Argon2Params
	bcryptCost int
}

// NewManager builds a Manager from the server configuration.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		algorithm: cfg.PasswordHasher,
		argon2: Argon2Params{
			Time:      cfg.Argon2Time,
			MemoryKiB: cfg.Argon2MemoryKiB,
			Threads:   cfg.Argon2Threads,
		},
		bcryptCost: cfg.BcryptCost,
	}
}

// Hash returns a salted one-way digest of password. The salt is random per
// call, so equal passwords produce different encodings.
func (m *Manager) Hash(password string) (string, error) {
	switch m.algorithm {
	case config.HasherBcrypt:
		h, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(h), nil
	case config.HasherArgon2id:
		return m.hashArgon2(password), nil
	default:
		return "", fmt.Errorf("unknown password hasher %q", m.algorithm)
	}
}

// Verify reports whether password matches encoded. Comparison time does not
// depend on where the digests differ. Malformed encodings never verify.
func (m *Manager) Verify(password, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, argon2Prefix):
		return verifyArgon2(password, encoded)
	case strings.HasPrefix(encoded, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	default:
		return false
	}
}

func (m *Manager) hashArgon2(password string) string {
	p := m.argon2
	salt := common.GenerateRandByteArray(saltLength)
	key := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, keyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

func verifyArgon2(password, encoded string) bool {
	p, salt, key, err := decodeArgon2(encoded)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, uint32(len(key)))
	defer common.WipeByteArray(candidate)

	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errMalformedHash
	}
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errMalformedHash
	}
	if p.Time == 0 || p.MemoryKiB == 0 || p.Threads == 0 {
		return p, nil, nil, errMalformedHash
	}

	salt, err := b64.DecodeString(parts[3])
	if err != nil {
		return p, nil, nil, errMalformedHash
	}
	key, err := b64.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errMalformedHash
	}
	return p, salt, key, nil
}
