package mlkem

import "crypto/subtle"

// KeyGen runs the PKE key generation on seed d, then appends pk, H(pk),
// and the 32-byte implicit-rejection seed z to form the full secret key
// sk = sk_pke||pk||H(pk)||z.
func KeyGen(ps ParameterSet, d [32]byte, z [32]byte) (pk, sk []byte) {
	pk, skPke := PKEKeyGen(ps, d)
	h := SHA3_256(pk)

	sk = make([]byte, 0, ps.SKLen)
	sk = append(sk, skPke...)
	sk = append(sk, pk...)
	sk = append(sk, h[:]...)
	sk = append(sk, z[:]...)
	return pk, sk
}

// Encapsulate computes (K̄,r) = SHA3-512(SHA3-256(m)||SHA3-256(pk));
// ct = PKE.Encrypt(pk, SHA3-256(m), r); the returned KDFHandle wraps
// SHAKE-256(K̄||SHA3-256(ct)), whose first 32 bytes are the shared
// secret. Hashing m before it enters the SHA3-512 split, rather than
// feeding m directly, keeps the encryption randomness derivation from
// depending on anything the ciphertext itself hasn't already committed to.
func Encapsulate(ps ParameterSet, m [32]byte, pk []byte) (ct []byte, kdf *KDFHandle, err error) {
	if err = checkLen("public key", len(pk), ps.PKLen); err != nil {
		return nil, nil, err
	}
	hm := SHA3_256(m[:])
	hpk := SHA3_256(pk)

	var g [64]byte
	var preimage [64]byte
	copy(preimage[:32], hm[:])
	copy(preimage[32:], hpk[:])
	g = SHA3_512(preimage[:])

	var kBar [32]byte
	var r [32]byte
	copy(kBar[:], g[:32])
	copy(r[:], g[32:])

	ct, err = PKEEncrypt(ps, pk, hm, r)
	if err != nil {
		return nil, nil, err
	}

	hct := SHA3_256(ct)
	var seed [64]byte
	copy(seed[:32], kBar[:])
	copy(seed[32:], hct[:])
	return ct, newKDFHandle(seed[:]), nil
}

// Decapsulate returns an error only when sk or ct has the wrong length.
// A ciphertext of the right length that is malformed or
// tampered silently decapsulates to an unpredictable but
// deterministic secret instead of returning an error, so a network
// attacker who can observe success/failure learns nothing. It decrypts,
// re-derives (K̄′,r′), re-encrypts, and selects between K̄′ and the
// rejection value z via a constant-time byte-wise conditional select
// (crypto/subtle.ConstantTimeCompare/ConstantTimeCopy) rather than a
// data-dependent branch, so the SHAKE-256 initialization that follows is
// identical on both the accept and reject paths.
func Decapsulate(ps ParameterSet, sk []byte, ct []byte) (*KDFHandle, error) {
	if err := checkLen("secret key", len(sk), ps.SKLen); err != nil {
		return nil, err
	}
	if err := checkLen("ciphertext", len(ct), ps.CTLen); err != nil {
		return nil, err
	}

	skPkeLen := 12 * ps.K * 256 / 8
	skPke := sk[:skPkeLen]
	pk := sk[skPkeLen : skPkeLen+ps.PKLen]
	h := sk[skPkeLen+ps.PKLen : skPkeLen+ps.PKLen+32]
	z := sk[skPkeLen+ps.PKLen+32 : skPkeLen+ps.PKLen+64]

	mPrime, err := PKEDecrypt(ps, skPke, ct)
	if err != nil {
		return nil, err
	}

	var preimage [64]byte
	copy(preimage[:32], mPrime[:])
	copy(preimage[32:], h)
	g := SHA3_512(preimage[:])

	var kBarPrime [32]byte
	var rPrime [32]byte
	copy(kBarPrime[:], g[:32])
	copy(rPrime[:], g[32:])

	ctPrime, err := PKEEncrypt(ps, pk, mPrime, rPrime)
	if err != nil {
		return nil, err
	}

	// ConstantTimeCompare itself is constant-time over its inputs'
	// content (only the *lengths* must match up front, and they always
	// do here: both ct and ctPrime are exactly ps.CTLen bytes).
	eq := subtle.ConstantTimeCompare(ct, ctPrime)

	var selected [32]byte
	subtle.ConstantTimeCopy(1-eq, selected[:], z)
	subtle.ConstantTimeCopy(eq, selected[:], kBarPrime[:])

	hct := SHA3_256(ct)
	var seed [64]byte
	copy(seed[:32], selected[:])
	copy(seed[32:], hct[:])
	return newKDFHandle(seed[:]), nil
}
