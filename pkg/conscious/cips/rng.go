// Package cips implements the optional coalition, integration, phenomenal and
// self-modeling extension: workspace competition between coalitions, a qualia
// generator, an active-inference loop with a persistent belief, and an
// evolution step that may adjust the phi weights of the run that owns it.
package cips

// Numerical Recipes LCG constants; the modulus is 2^32 via uint32 overflow.
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// LCG is a 32-bit linear-congruential generator. It is not safe for
// concurrent use; each run owns one.
type LCG struct {
	state uint32
}

// NewLCG seeds a generator. Equal seeds produce equal sequences. The seed
// goes through a splitmix64 step first so neighbouring seeds start apart.
func NewLCG(seed int64) *LCG {
	return &LCG{state: uint32(mixSeed(uint64(seed)))}
}

// mixSeed is the splitmix64 output function.
func mixSeed(z uint64) uint64 {
	z += 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Uint32 advances the generator.
func (g *LCG) Uint32() uint32 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// Float64 returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Uint32()) / (1 << 32)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		panic("cips: Intn called with non-positive n")
	}
	return int(g.Float64() * float64(n))
}
