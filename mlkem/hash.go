package mlkem

import (
	"golang.org/x/crypto/sha3"
)

// SHA3_256 returns SHA3-256(msg), the public-key hash H used throughout
// the Fujisaki-Okamoto transform. Allocation is confined to the one-shot
// sha3.Sum256 call; no state escapes.
func SHA3_256(msg []byte) [32]byte {
	return sha3.Sum256(msg)
}

// SHA3_512 returns SHA3-512(msg), used to derive (ρ,σ) in PKE.KeyGen and
// (K̄,r) in KEM.Encapsulate/Decapsulate.
func SHA3_512(msg []byte) [64]byte {
	return sha3.Sum512(msg)
}

// Shake is a reset-able, incremental-squeeze wrapper around
// golang.org/x/crypto/sha3's ShakeHash: absorb via Write, then Read
// repeatedly to squeeze an arbitrary-length stream.
type Shake struct {
	h sha3.ShakeHash
}

// NewShake128 returns a fresh SHAKE-128 state (rate 168 bytes), used for
// the uniform matrix-entry rejection sampler.
func NewShake128() *Shake {
	return &Shake{h: sha3.NewShake128()}
}

// NewShake256 returns a fresh SHAKE-256 state (rate 136 bytes), used for
// CBD noise sampling and the KEM's final KDF stream.
func NewShake256() *Shake {
	return &Shake{h: sha3.NewShake256()}
}

// Write absorbs more input. It never returns an error: sha3.ShakeHash.Write
// never fails.
func (s *Shake) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

// Read squeezes len(p) bytes of output, continuing the stream across
// calls. The underlying sponge finalizes (applies the domain separator
// and padding) on the first Read and refuses further writes after that,
// the standard XOF absorb-then-squeeze contract.
func (s *Shake) Read(p []byte) (int, error) {
	return s.h.Read(p)
}

// Reset restores s to its just-constructed state so it can be reused for
// a new absorb/squeeze cycle without a fresh allocation.
func (s *Shake) Reset() {
	s.h.Reset()
}

// Clone returns an independent copy of s's current sponge state. The
// entire sponge state is at most 200 bytes, so cloning mid-stream to fork
// two independent continuations is cheap.
func (s *Shake) Clone() *Shake {
	return &Shake{h: s.h.Clone()}
}

// KDFHandle wraps a finalized SHAKE-256 state with ownership moved to the
// caller: Encapsulate and Decapsulate return one of these instead of a
// fixed 32-byte array so callers needing more KDF output can keep
// squeezing.
type KDFHandle struct {
	shake *Shake
}

// Squeeze reads len(buf) more bytes from the underlying SHAKE-256 stream,
// deterministically continuing from wherever the last Squeeze or the
// initial 32-byte shared secret left off.
func (k *KDFHandle) Squeeze(buf []byte) {
	_, _ = k.shake.Read(buf)
}

// SharedSecret returns the first 32 bytes of the KDF stream: the shared
// secret proper. Calling it more than once on the same
// handle advances the stream each time, like any Squeeze call; callers
// wanting the canonical 32-byte secret should call it exactly once,
// immediately after Encapsulate/Decapsulate returns.
func (k *KDFHandle) SharedSecret() [32]byte {
	var out [32]byte
	k.Squeeze(out[:])
	return out
}

// newKDFHandle builds a KDFHandle by absorbing preimage into a fresh
// SHAKE-256 state.
func newKDFHandle(preimage []byte) *KDFHandle {
	s := NewShake256()
	_, _ = s.Write(preimage)
	return &KDFHandle{shake: s}
}
