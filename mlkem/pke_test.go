package mlkem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randSeed32(r *rand.Rand) [32]byte {
	var s [32]byte
	_, _ = r.Read(s[:])
	return s
}

// TestPKELengths checks the fixed byte layouts of pk, sk, and ct.
func TestPKELengths(t *testing.T) {
	r := rand.New(rand.NewSource(40))
	for _, ps := range []ParameterSet{L1, L3, L5} {
		d := randSeed32(r)
		pk, sk := PKEKeyGen(ps, d)
		require.Len(t, pk, ps.PKLen, ps.Name)
		require.Len(t, sk, 12*ps.K*256/8, ps.Name)

		m := randSeed32(r)
		cr := randSeed32(r)
		ct, err := PKEEncrypt(ps, pk, m, cr)
		require.NoError(t, err)
		require.Len(t, ct, ps.CTLen, ps.Name)
	}
}

// TestPKECorrectness checks that Decrypt(sk, Encrypt(pk, m, r)) = m with
// overwhelming probability over many random trials. Exhaustive coverage
// would need far more trials than is practical in a fast test suite, so
// this runs a bounded-but-plentiful sample per parameter set instead.
func TestPKECorrectness(t *testing.T) {
	const trials = 2000
	r := rand.New(rand.NewSource(41))
	for _, ps := range []ParameterSet{L1, L3, L5} {
		d := randSeed32(r)
		pk, skPke := PKEKeyGen(ps, d)

		fails := 0
		for i := 0; i < trials; i++ {
			m := randSeed32(r)
			cr := randSeed32(r)
			ct, err := PKEEncrypt(ps, pk, m, cr)
			require.NoError(t, err)

			got, err := PKEDecrypt(ps, skPke, ct)
			require.NoError(t, err)
			if got != m {
				fails++
			}
		}
		require.Zerof(t, fails, "%s: %d/%d PKE decryption failures", ps.Name, fails, trials)
	}
}

// TestPKEEncryptRejectsBadKeyLength exercises the boundary-check error
// path for a caller-supplied key of the wrong length.
func TestPKEEncryptRejectsBadKeyLength(t *testing.T) {
	var m, cr [32]byte
	_, err := PKEEncrypt(L1, make([]byte, 10), m, cr)
	require.Error(t, err)
}

func TestPKEDecryptRejectsBadLengths(t *testing.T) {
	_, err := PKEDecrypt(L1, make([]byte, 5), make([]byte, L1.CTLen))
	require.Error(t, err)

	_, err = PKEDecrypt(L1, make([]byte, 12*L1.K*256/8), make([]byte, 3))
	require.Error(t, err)
}
