package mlkem

import "github.com/tuneinsight/mlkemgo/ring"

// shake128Rate is the SHAKE-128 sponge rate in bytes. Reading in
// rate-sized chunks avoids the short reads the rejection loop would
// otherwise need to top up.
const shake128Rate = 168

// Parse is a uniform rejection sampler over a SHAKE-128 stream seeded by
// ρ||j||i, producing an NTT-domain matrix entry. The stream is read three
// bytes at a time and split into two 12-bit candidates, each accepted iff
// < ring.Q; rejection runs only on public data (ρ, i, j), never secret
// material, so the variable-length loop is not a constant-time concern.
func Parse(rho [32]byte, i, j byte) *ring.Poly {
	s := NewShake128()
	_, _ = s.Write(rho[:])
	_, _ = s.Write([]byte{j, i})

	p := &ring.Poly{Basis: ring.NTTDomain}
	var buf [shake128Rate]byte
	n := 0
	for n < ring.N {
		_, _ = s.Read(buf[:])
		for off := 0; off+3 <= shake128Rate && n < ring.N; off += 3 {
			d1 := uint16(buf[off]) | (uint16(buf[off+1]&0x0f) << 8)
			d2 := uint16(buf[off+1]>>4) | (uint16(buf[off+2]) << 4)

			if d1 < uint16(ring.Q) {
				p.Coeffs[n] = ring.Elt(d1)
				n++
			}
			if n < ring.N && d2 < uint16(ring.Q) {
				p.Coeffs[n] = ring.Elt(d2)
				n++
			}
		}
	}
	return p
}

// cbdStream absorbs seed||nonce into a fresh SHAKE-256 state and squeezes
// exactly 64*eta bytes: CBD needs 2*eta random bits per coefficient, and
// there are 256 coefficients, so 2*eta*256/8 = 64*eta bytes of entropy.
func cbdStream(seed []byte, nonce byte, eta int) []byte {
	s := NewShake256()
	_, _ = s.Write(seed)
	_, _ = s.Write([]byte{nonce})
	out := make([]byte, 64*eta)
	_, _ = s.Read(out)
	return out
}

// bitAt returns bit index i (0 = LSB of byte 0) of stream as 0 or 1.
func bitAt(stream []byte, i int) uint16 {
	return uint16(stream[i/8]>>uint(i%8)) & 1
}

// CBD is a centered-binomial sampler: given 64*eta bytes of entropy,
// produce 256 coefficients each distributed as sum(b_i) - sum(b'_i) over
// eta random bits, reduced into Z_q via a single conditional-subtract
// (ring.Sub), never by a branch on the sign of the intermediate
// difference.
func CBD(stream []byte, eta int) *ring.Poly {
	p := &ring.Poly{Basis: ring.Normal}
	bit := 0
	for i := 0; i < ring.N; i++ {
		var a, b uint16
		for x := 0; x < eta; x++ {
			a += bitAt(stream, bit)
			bit++
		}
		for x := 0; x < eta; x++ {
			b += bitAt(stream, bit)
			bit++
		}
		p.Coeffs[i] = ring.Sub(ring.Elt(a), ring.Elt(b))
	}
	return p
}

// SampleCBD is the convenience entry point PKE callers use: derive the
// noise stream from (seed, nonce) and reduce it to a polynomial in one
// call.
func SampleCBD(seed []byte, nonce byte, eta int) *ring.Poly {
	return CBD(cbdStream(seed, nonce, eta), eta)
}
