package password

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Algorithm names a supported hashing scheme.
type Algorithm string

const (
	// AlgorithmBcrypt hashes with bcrypt using Config.Cost as the work factor.
	AlgorithmBcrypt Algorithm = "bcrypt"
	// AlgorithmArgon2id hashes with argon2id using Config.Argon2.
	AlgorithmArgon2id Algorithm = "argon2id"
)

var (
	// ErrInvalidCost is returned when the bcrypt work factor is missing or out of range.
	ErrInvalidCost = errors.New("password: invalid work factor")
	// ErrUnsupportedAlgorithm is returned for an unknown Algorithm value.
	ErrUnsupportedAlgorithm = errors.New("password: unsupported algorithm")
	// ErrMalformedHash is returned by Verify when the stored hash cannot be parsed.
	ErrMalformedHash = errors.New("password: malformed hash")
)

// Hasher hashes plaintext passwords and compares them against stored hashes.
//
// Verify reports false with a nil error for a plain mismatch. A non-nil error
// means the stored hash itself is unusable.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encodedHash string) (bool, error)
}

// Config selects and tunes a Hasher.
type Config struct {
	Algorithm Algorithm
	Cost      int
	Argon2    Argon2Config
}

// New builds the Hasher described by cfg. An empty Algorithm means bcrypt.
func New(cfg Config) (Hasher, error) {
	switch cfg.Algorithm {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cfg.Cost)
	case AlgorithmArgon2id:
		return NewArgon2(cfg.Argon2)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}
}

// ParseCost converts a configured work factor into an int. Anything that is not
// a base-10 integer, including an empty string, fails with ErrInvalidCost.
func ParseCost(raw string) (int, error) {
	cost, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidCost, raw)
	}
	if err := ValidateCost(cost); err != nil {
		return 0, err
	}
	return cost, nil
}
