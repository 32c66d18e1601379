package ports

// Random is the uniform random source used to sample turn angles.
// *math/rand.Rand and *math/rand/v2.Rand both satisfy it.
type Random interface {
	// Float32 returns a pseudo-random number in the half-open interval [0.0, 1.0).
	Float32() float32
}
