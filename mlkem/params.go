// Package mlkem implements an IND-CCA2 Module-LWE key encapsulation
// mechanism (the FIPS 203 "ML-KEM" construction): a Fujisaki-Okamoto
// transform layered over an IND-CPA public-key encryption scheme built on
// the ring package's field, NTT, and codec primitives.
//
// mlkem is the scheme package consuming the lower-level ring package,
// the same layering a higher-level lattice scheme built on a generic ring
// arithmetic core would use.
package mlkem

import "fmt"

// ParameterSet bundles the small integer constants that distinguish the
// three NIST security levels, resolved once at instantiation rather than
// dispatched on per call in the hot paths. Every derived byte length is
// precomputed here once rather than recomputed at each call site.
type ParameterSet struct {
	// Name identifies the parameter set (for error messages and tests
	// only; never consumed by core arithmetic).
	Name string

	// K is the module dimension: the matrix Â is K x K, vectors are
	// length K.
	K int

	// Eta1 is the CBD width used for the secret vector s and, in
	// encryption, for r'.
	Eta1 int

	// Eta2 is the CBD width used for the noise vectors e1 and the noise
	// polynomial e2.
	Eta2 int

	// Du, Dv are the ciphertext compression bit-widths for u and v.
	Du int
	Dv int

	// PKLen, SKLen, CTLen are the derived fixed byte lengths of the
	// public key, secret key, and ciphertext for this parameter set.
	PKLen int
	SKLen int
	CTLen int
}

func newParameterSet(name string, k, eta1, eta2, du, dv int) ParameterSet {
	pkLen := 12*k*polyN/8 + 32
	ctLen := 32 * (du*k + dv)
	skLen := 12*k*polyN/8 + pkLen + 32 + 32
	return ParameterSet{
		Name:  name,
		K:     k,
		Eta1:  eta1,
		Eta2:  eta2,
		Du:    du,
		Dv:    dv,
		PKLen: pkLen,
		SKLen: skLen,
		CTLen: ctLen,
	}
}

// polyN mirrors ring.N without importing ring into this file, since the
// byte-length formulas above are pure arithmetic on a fixed constant.
const polyN = 256

// L1, L3, L5 are the three NIST security-level parameter sets.
var (
	L1 = newParameterSet("ML-KEM-512", 2, 3, 2, 10, 4)
	L3 = newParameterSet("ML-KEM-768", 3, 2, 2, 10, 4)
	L5 = newParameterSet("ML-KEM-1024", 4, 2, 2, 11, 5)
)

// checkLen returns an error if got != want, naming field for the message.
// Exported entry points validate caller-supplied slice lengths this way;
// it is a boundary check only, on lengths rather than values, so it never
// branches on secret data.
func checkLen(field string, got, want int) error {
	if got != want {
		return fmt.Errorf("mlkem: %s: expected %d bytes, got %d", field, want, got)
	}
	return nil
}
