package source

import "math/bits"

// Philox-64 round constants (Random123's Philox4x64-10), used because
// spec.md §3 and §4.4 specify Philox-64 without pinning a round count; we
// follow the original implementation's 10-round Philox4x64 (see
// SPEC_FULL.md §3 for the constant provenance).
const (
	philoxM0 = 0xD2E7470EE14C6C93
	philoxM1 = 0xCA5A826395121157
	philoxW0 = 0x9E3779B97F4A7C15
	philoxW1 = 0xBB67AE8584CAA73B
	philoxRounds = 10
)

// Philox is a counter-based PRNG: Next is a pure function of (key, counter),
// so rewinding is just re-supplying an earlier counter rather than mutating
// any hidden state, matching spec.md §4.4 "can be rewound by re-setting
// counter (index, step)".
type Philox struct {
	key [2]uint64
}

// NewPhilox builds a Philox stream keyed by (seed, modelIndex), per spec.md
// §3's "keyed by (seed, model-index, step)" — step is supplied per call to
// Next, not baked into the key.
func NewPhilox(seed, modelIndex uint64) Philox {
	return Philox{key: [2]uint64{seed, modelIndex}}
}

// Next returns the two 64-bit words Philox4x64-10 produces for the given
// step, deterministically and without side effects.
func (p Philox) Next(step uint64) (uint64, uint64) {
	ctr := [4]uint64{step, 0, 0, 0}
	key := p.key
	for r := 0; r < philoxRounds; r++ {
		hi0, lo0 := bits.Mul64(ctr[0], philoxM0)
		hi1, lo1 := bits.Mul64(ctr[2], philoxM1)
		ctr = [4]uint64{
			hi1 ^ ctr[1] ^ key[0],
			lo1,
			hi0 ^ ctr[3] ^ key[1],
			lo0,
		}
		key[0] += philoxW0
		key[1] += philoxW1
	}
	return ctr[0], ctr[2]
}

// Float64 maps one of Next's 64-bit words into [0, 1) with full mantissa
// precision, the standard counter-PRNG-to-uniform-float recipe.
func (p Philox) Float64(step uint64) float64 {
	hi, _ := p.Next(step)
	return float64(hi>>11) / (1 << 53)
}
