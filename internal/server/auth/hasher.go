// Package auth holds the credential primitives: bcrypt password hashing and
// HS256 access tokens.
package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pressroom/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// dummySecret is hashed once per hasher so that logins for unknown emails
// still pay for one bcrypt comparison.
const dummySecret = "pressroom-dummy-secret"

// BcryptHasher produces and verifies salted bcrypt digests.
type BcryptHasher struct {
	cost  int
	dummy string
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := &BcryptHasher{cost: cost}

	dummy, err := h.Hash(dummySecret)
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

// Hash returns the bcrypt digest of secret. Failures, including secrets
// longer than 72 bytes, wrap common.ErrorInternal.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %v: %w", err, common.ErrorInternal)
	}
	return string(b), nil
}

// Verify reports whether secret matches digest. A mismatch is (false, nil);
// a malformed digest wraps common.ErrorInternal.
func (h *BcryptHasher) Verify(secret, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify secret: %v: %w", err, common.ErrorInternal)
	}
}

// DummyDigest is a valid digest that no real password is expected to match.
func (h *BcryptHasher) DummyDigest() string {
	return h.dummy
}
