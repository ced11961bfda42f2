// Package password implements bcrypt password hashing and verification.
//
// # Timing contract
//
// [Hasher.Verify] and [Hasher.VerifyDummy] each cost exactly one bcrypt
// comparison. Callers resolving credentials must run one of the two on every
// attempt (VerifyDummy when the account does not exist) so that lookup
// misses are timing-indistinguishable from wrong passwords and the email
// space cannot be enumerated through response latency.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// dummyHash is a fixed, well-formed bcrypt hash compared against for unknown
// accounts. Its preimage is irrelevant: the comparison result is discarded,
// only its cost matters.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// Hasher hashes and verifies passwords at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to [DefaultCost].
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether plain matches the stored hash. Malformed hashes
// verify as false.
func (h *Hasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyDummy burns one bcrypt comparison against a fixed hash. Called on
// the unknown-account path to keep it timing-indistinguishable from a real
// verification.
func (h *Hasher) VerifyDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
