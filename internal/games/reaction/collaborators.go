package reaction

import "math/rand"

// Display receives the text that should currently be shown to the player.
// Calls are fire-and-forget; implementations must not block.
type Display interface {
	SetDisplay(text string)
}

// DisplayFunc adapts a plain function to the Display interface.
type DisplayFunc func(text string)

// SetDisplay calls f(text).
func (f DisplayFunc) SetDisplay(text string) {
	f(text)
}

// Random produces uniformly distributed integers in [low, high], both ends inclusive.
type Random interface {
	Between(low, high int) int
}

// SeededRandom is the default Random backed by math/rand.
type SeededRandom struct {
	rng *rand.Rand
}

// NewRandom creates a deterministic random source for the given seed.
func NewRandom(seed int64) *SeededRandom {
	return &SeededRandom{rng: rand.New(rand.NewSource(seed))}
}

// Between returns a value in [low, high].
func (r *SeededRandom) Between(low, high int) int {
	if high <= low {
		return low
	}
	return low + r.rng.Intn(high-low+1)
}
