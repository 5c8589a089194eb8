package mlkem

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

// welchT computes Welch's t-statistic for two independent samples. Mean
// and standard deviation come from github.com/montanaflynn/stats rather
// than hand-rolled summation.
func welchT(a, b []float64) float64 {
	meanA, _ := stats.Mean(stats.Float64Data(a))
	meanB, _ := stats.Mean(stats.Float64Data(b))
	sdA, _ := stats.StandardDeviation(stats.Float64Data(a))
	sdB, _ := stats.StandardDeviation(stats.Float64Data(b))

	varA := sdA * sdA / float64(len(a))
	varB := sdB * sdB / float64(len(b))
	denom := math.Sqrt(varA + varB)
	if denom == 0 {
		return 0
	}
	return (meanA - meanB) / denom
}

// TestDecapsulateConstantTime checks that the wall-clock of Decapsulate
// with a fixed secret key is statistically indistinguishable between
// valid and deliberately malformed ciphertexts (Welch's |t| <= 4.5).
// Sample counts here are kept modest to keep the suite fast under
// `go test`; the comparison logic, not the sample count, is what matters.
func TestDecapsulateConstantTime(t *testing.T) {
	if testing.Short() {
		t.Skip("timing probe skipped under -short")
	}

	const samples = 4000
	ps := L1
	r := rand.New(rand.NewSource(60))

	d := randSeed32(r)
	z := randSeed32(r)
	pk, sk := KeyGen(ps, d, z)

	m := randSeed32(r)
	validCT, _, err := Encapsulate(ps, m, pk)
	require.NoError(t, err)

	malformed := append([]byte(nil), validCT...)
	malformed[len(malformed)/2] ^= 0xff

	timeRuns := func(ct []byte) []float64 {
		out := make([]float64, samples)
		for i := range out {
			start := time.Now()
			_, err := Decapsulate(ps, sk, ct)
			require.NoError(t, err)
			out[i] = float64(time.Since(start).Nanoseconds())
		}
		return out
	}

	validTimes := timeRuns(validCT)
	malformedTimes := timeRuns(malformed)

	tStat := welchT(validTimes, malformedTimes)
	require.LessOrEqualf(t, math.Abs(tStat), 4.5,
		"decapsulate timing distinguishes valid from malformed ciphertexts: |t|=%f", math.Abs(tStat))
}
