// Package password derives and verifies salted one-way digests for
// stored credentials. A record never holds the plaintext that produced
// its digest.
package password

import "golang.org/x/crypto/bcrypt"

type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs below
// bcrypt.MinCost fall back to bcrypt.DefaultCost, costs above
// bcrypt.MaxCost are clamped.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a fresh-salted digest from plain. The salt is embedded in
// the digest encoding, nothing needs to be stored alongside it.
func (h *Hasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain produced digest. A malformed digest
// verifies as false, never as an error.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
