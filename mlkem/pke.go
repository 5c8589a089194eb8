package mlkem

import "github.com/tuneinsight/mlkemgo/ring"

// buildMatrix expands the public seed ρ into the k x k NTT-domain matrix
// Â, or its transpose directly, by swapping the (i,j) indices fed to
// Parse rather than sampling Â and transposing it afterward.
//
// The matrix is always rebuilt from ρ on demand, in both KeyGen and
// Encrypt (including the re-encryption inside Decapsulate), rather than
// cached on a key object, so a public key
// stays a plain byte string with no larger matrix state to keep in sync.
func buildMatrix(rho [32]byte, k int, transpose bool) ring.Matrix {
	m := ring.NewMatrix(k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			var entry *ring.Poly
			if transpose {
				entry = Parse(rho, byte(j), byte(i))
			} else {
				entry = Parse(rho, byte(i), byte(j))
			}
			m[i][j] = *entry
		}
	}
	return m
}

// encodeVector12 packs a k-length vector (of either basis) into
// 384k = 12*k*N/8 bytes, one 12-bit-per-coefficient block per polynomial:
// the layout used for both t̂ inside the public key and ŝ inside the
// secret key.
func encodeVector12(v ring.Vector) []byte {
	out := make([]byte, 0, len(v)*ring.N*12/8)
	for i := range v {
		out = append(out, v[i].EncodeD(12)...)
	}
	return out
}

// decodeVector12 is the inverse of encodeVector12, tagging every
// polynomial with basis b.
func decodeVector12(buf []byte, k int, b ring.Domain) (ring.Vector, error) {
	step := ring.N * 12 / 8
	if err := checkLen("encodeVector12 input", len(buf), step*k); err != nil {
		return nil, err
	}
	v := ring.NewVector(k)
	for i := 0; i < k; i++ {
		p, err := ring.DecodeD(buf[i*step:(i+1)*step], 12, b)
		if err != nil {
			return nil, err
		}
		v[i] = *p
	}
	return v, nil
}

// PKEKeyGen expands the 32-byte seed d into (ρ,σ) via SHA3-512(d||k),
// builds Â from ρ, samples (s,e) from CBD_η1 over SHAKE-256(σ, nonce)
// with nonces 0..2k-1 in a fixed order (s first, then e), and returns
// pk = encode_12(t̂)||ρ, skPke = encode_12(ŝ).
func PKEKeyGen(ps ParameterSet, d [32]byte) (pk, skPke []byte) {
	k := ps.K
	var salted [33]byte
	copy(salted[:32], d[:])
	salted[32] = byte(k)
	expanded := SHA3_512(salted[:])

	var rho [32]byte
	copy(rho[:], expanded[:32])
	sigma := expanded[32:]

	aHat := buildMatrix(rho, k, false)

	s := ring.NewVector(k)
	e := ring.NewVector(k)
	for i := 0; i < k; i++ {
		s[i] = *SampleCBD(sigma, byte(i), ps.Eta1)
	}
	for i := 0; i < k; i++ {
		e[i] = *SampleCBD(sigma, byte(k+i), ps.Eta1)
	}
	s.NTT()
	e.NTT()

	tHat := ring.NewVector(k)
	aHat.MulVec(s, tHat)
	tHat.Add(e, tHat)

	pk = make([]byte, 0, ps.PKLen)
	pk = append(pk, encodeVector12(tHat)...)
	pk = append(pk, rho[:]...)

	skPke = encodeVector12(s)
	return pk, skPke
}

// decodePublicKey splits a pk byte string into (t̂, ρ); the caller rebuilds
// Â from ρ. Used by both Encrypt (directly) and indirectly by the KEM layer.
func decodePublicKey(pk []byte, ps ParameterSet) (tHat ring.Vector, rho [32]byte, err error) {
	if err = checkLen("public key", len(pk), ps.PKLen); err != nil {
		return nil, rho, err
	}
	step := ring.N * 12 / 8 * ps.K
	tHat, err = decodeVector12(pk[:step], ps.K, ring.NTTDomain)
	if err != nil {
		return nil, rho, err
	}
	copy(rho[:], pk[step:])
	return tHat, rho, nil
}

// PKEEncrypt rebuilds Â from pk's seed, samples r' (CBD_η1), e1, e2
// (CBD_η2) from SHAKE-256(r, nonce) with nonces 0..k-1, k..2k-1, 2k
// respectively, and computes
// u = invNTT(Â^T∘r̂)+e1, v = invNTT(t̂^T∘r̂)+e2+decompress_1(m).
func PKEEncrypt(ps ParameterSet, pk []byte, m [32]byte, r [32]byte) ([]byte, error) {
	k := ps.K
	tHat, rho, err := decodePublicKey(pk, ps)
	if err != nil {
		return nil, err
	}
	aHatT := buildMatrix(rho, k, true)

	rPrime := ring.NewVector(k)
	for i := 0; i < k; i++ {
		rPrime[i] = *SampleCBD(r[:], byte(i), ps.Eta1)
	}
	e1 := ring.NewVector(k)
	for i := 0; i < k; i++ {
		e1[i] = *SampleCBD(r[:], byte(k+i), ps.Eta2)
	}
	e2 := SampleCBD(r[:], byte(2*k), ps.Eta2)

	rHat := rPrime.Clone()
	rHat.NTT()

	u := ring.NewVector(k)
	aHatT.MulVec(rHat, u)
	u.InvNTT()
	u.Add(e1, u)

	var vHat ring.Poly
	ring.DotHat(tHat, rHat, &vHat)
	vHat.InvNTT()

	mPoly, err := ring.DecodeD(m[:], 1, ring.Normal)
	if err != nil {
		return nil, err
	}
	mDecompressed := ring.DecompressPoly(mPoly, 1)

	var v ring.Poly
	ring.PolyAdd(&vHat, e2, &v)
	ring.PolyAdd(&v, mDecompressed, &v)

	ct := make([]byte, 0, ps.CTLen)
	for i := 0; i < k; i++ {
		ct = append(ct, ring.CompressPoly(&u[i], ps.Du).EncodeD(ps.Du)...)
	}
	ct = append(ct, ring.CompressPoly(&v, ps.Dv).EncodeD(ps.Dv)...)
	return ct, nil
}

// PKEDecrypt parses (u′,v′) from ct, computes w = v′ − invNTT(ŝ^T∘û′),
// and outputs m = encode_1(compress_1(w)).
func PKEDecrypt(ps ParameterSet, skPke []byte, ct []byte) ([32]byte, error) {
	var out [32]byte
	k := ps.K
	if err := checkLen("ciphertext", len(ct), ps.CTLen); err != nil {
		return out, err
	}
	if err := checkLen("pke secret key", len(skPke), ring.N*12/8*k); err != nil {
		return out, err
	}

	uStep := ring.N * ps.Du / 8
	vOffset := uStep * k
	vStep := ring.N * ps.Dv / 8
	if err := checkLen("ciphertext", len(ct), vOffset+vStep); err != nil {
		return out, err
	}

	uVec := ring.NewVector(k)
	for i := 0; i < k; i++ {
		cp, err := ring.DecodeD(ct[i*uStep:(i+1)*uStep], ps.Du, ring.Normal)
		if err != nil {
			return out, err
		}
		uVec[i] = *ring.DecompressPoly(cp, ps.Du)
	}
	vCompressed, err := ring.DecodeD(ct[vOffset:vOffset+vStep], ps.Dv, ring.Normal)
	if err != nil {
		return out, err
	}
	v := ring.DecompressPoly(vCompressed, ps.Dv)

	sHat, err := decodeVector12(skPke, k, ring.NTTDomain)
	if err != nil {
		return out, err
	}

	uHat := uVec.Clone()
	uHat.NTT()

	var dot ring.Poly
	ring.DotHat(sHat, uHat, &dot)
	dot.InvNTT()

	var w ring.Poly
	ring.PolySub(v, &dot, &w)

	mCompressed := ring.CompressPoly(&w, 1)
	copy(out[:], mCompressed.EncodeD(1))
	return out, nil
}
