package ring

// NTT computes the forward negacyclic number-theoretic transform of p,
// in place, moving it from the normal (coefficient) basis to the NTT
// (evaluation) basis.
//
// Because Z_q has no primitive 512th root of unity, X^256+1 only splits
// into 128 linear pairs (x^2 - ζ^brv(i)), not 256 singletons, so the
// Cooley-Tukey butterfly network runs 7 layers (l = 128, 64, ..., 2), one
// fewer than a full-degree NTT of a ring that split completely. The result
// leaves 128 independent pairs of adjacent coefficients, each representing
// a linear polynomial c0 + c1*X in one of the 128 quotient factors; callers
// must use MulHat (not plain coefficient-wise multiplication) to multiply
// two NTT-domain polynomials.
func (p *Poly) NTT() {
	checkDomain(Normal, p)
	p.Basis = NTTDomain
	k := 1
	for l := N / 2; l > 1; l >>= 1 {
		for offset := 0; offset < N; offset += 2 * l {
			zeta := zetasMont[k]
			k++
			for j := offset; j < offset+l; j++ {
				u := p.Coeffs[j]
				v := p.Coeffs[j+l]
				t := MontMul(v, zeta)
				p.Coeffs[j] = Add(u, t)
				p.Coeffs[j+l] = Sub(u, t)
			}
		}
	}
}

// InvNTT computes the inverse transform of p in place, moving it back from
// the NTT (evaluation) basis to the normal (coefficient) basis, and
// applies the 128^-1 scaling the Gentleman-Sande butterflies leave
// outstanding (forward NTT only merges 128 pairs, so the missing factor
// is 128^-1, not 256^-1).
func (p *Poly) InvNTT() {
	checkDomain(NTTDomain, p)
	p.Basis = Normal
	k := 127
	for l := 2; l < N; l <<= 1 {
		for offset := 0; offset < N; offset += 2 * l {
			zeta := zetasMont[k]
			k--
			for j := offset; j < offset+l; j++ {
				u := p.Coeffs[j]
				v := p.Coeffs[j+l]
				p.Coeffs[j] = Add(u, v)
				t := Sub(v, u)
				p.Coeffs[j+l] = MontMul(t, zeta)
			}
		}
	}
	for i := 0; i < N; i++ {
		p.Coeffs[i] = MontMul(p.Coeffs[i], invNTTScaleMont)
	}
}

// MulHat computes the pointwise product of two NTT-domain polynomials,
// multiplying each of the 128 linear pairs modulo its own (x^2 - γ_i)
// factor, γ_i = ζ^(2*BitRev7(i)+1).
func MulHat(a, b, out *Poly) {
	checkDomain(NTTDomain, a, b)
	out.Basis = NTTDomain
	for i := 0; i < 128; i++ {
		a0, a1 := a.Coeffs[2*i], a.Coeffs[2*i+1]
		b0, b1 := b.Coeffs[2*i], b.Coeffs[2*i+1]
		gamma := gammasCanonical[i]

		out.Coeffs[2*i] = Add(Mul(a0, b0), Mul(Mul(a1, b1), gamma))
		out.Coeffs[2*i+1] = Add(Mul(a0, b1), Mul(a1, b0))
	}
}

// MulHatAddTo computes out += a*b and accumulates the result, used to
// build dot products over a k-length vector without allocating an
// intermediate polynomial per term.
func MulHatAddTo(a, b, out *Poly) {
	var tmp Poly
	MulHat(a, b, &tmp)
	PolyAdd(out, &tmp, out)
}
