package ring

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestCodecRoundTrip checks that, for every d in {1,4,5,10,11,12},
// decode_d(encode_d(p)) = p for any p whose coefficients fit in d bits.
func TestCodecRoundTrip(t *testing.T) {
	ds := []int{1, 4, 5, 10, 11, 12}
	r := rand.New(rand.NewSource(20))
	for _, d := range ds {
		mask := Elt(1<<uint(d) - 1)
		for trial := 0; trial < 50; trial++ {
			p := &Poly{Basis: Normal}
			for i := range p.Coeffs {
				p.Coeffs[i] = Elt(r.Intn(int(mask)+1)) & mask
			}
			buf := p.EncodeD(d)
			require.Len(t, buf, N*d/8)

			got, err := DecodeD(buf, d, Normal)
			require.NoError(t, err)
			if diff := cmp.Diff(p.Coeffs, got.Coeffs); diff != "" {
				t.Fatalf("decode_%d(encode_%d(p)) mismatch (-want +got):\n%s", d, d, diff)
			}
		}
	}
}

func TestDecodeDRejectsWrongLength(t *testing.T) {
	_, err := DecodeD(make([]byte, 10), 12, Normal)
	require.Error(t, err)
}

// modPlusMinus maps x mod Q into (-Q/2, Q/2], the signed residue the
// compression error bound below is stated over.
func modPlusMinus(x int32) int32 {
	y := x % int32(Q)
	if y <= -int32(Q)/2 {
		y += int32(Q)
	}
	if y > int32(Q)/2 {
		y -= int32(Q)
	}
	return y
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// TestCompressionErrorBoundExhaustive checks the compression error bound
// by exhaustive sweep over every x in Z_q (q is small, so this is cheap),
// for every d in {1,4,5,10,11}.
func TestCompressionErrorBoundExhaustive(t *testing.T) {
	ds := []int{1, 4, 5, 10, 11}
	for _, d := range ds {
		bound := int32((uint32(Q) + uint32(1)<<uint(d+1) - 1) >> uint(d+1)) // ceil(q/2^(d+1))
		for x := 0; x < int(Q); x++ {
			y := CompressD(Elt(x), d)
			back := DecompressD(y, d)
			diff := modPlusMinus(int32(back) - int32(x))
			require.LessOrEqualf(t, abs32(diff), bound,
				"d=%d x=%d: |decompress(compress(x))-x| mod± q = %d > bound %d", d, x, diff, bound)
		}
	}
}

// TestCompressPolyPreservesBasis checks that CompressPoly/DecompressPoly
// carry the basis tag through unchanged, since compression is a
// coefficient-wise map independent of basis.
func TestCompressPolyPreservesBasis(t *testing.T) {
	p := &Poly{Basis: NTTDomain}
	out := CompressPoly(p, 10)
	require.Equal(t, NTTDomain, out.Basis)
	back := DecompressPoly(out, 10)
	require.Equal(t, NTTDomain, back.Basis)
}
