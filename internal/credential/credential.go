// Package credential hashes and verifies user passwords. The Hasher
// interface is injected into the user service so tests can swap in a
// cheaper implementation.
package credential

import "golang.org/x/crypto/bcrypt"

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// Bcrypt implements Hasher with golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	Cost int
}

// NewBcrypt returns a Bcrypt hasher. A cost of 0 (or anything below the
// bcrypt minimum) falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int) Bcrypt {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return Bcrypt{Cost: cost}
}

func (b Bcrypt) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), b.Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (b Bcrypt) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
