package bvh

// Config holds the tuning constants the reference engine exposes as
// package-level constants (B2_aabbExtension, B2_aabbMultiplier, ...).
// Here they are an explicit value threaded through the constructor so
// that two trees in the same process — or the same test under two
// tunings — never share mutable global state.
type Config struct {
	// AABBExtension is the uniform fatten margin applied to a leaf's
	// AABB on CreateProxy and MoveProxy.
	AABBExtension float64 `yaml:"aabbExtension"`

	// AABBMultiplier scales the displacement vector when predicting a
	// moved proxy's fattened box.
	AABBMultiplier float64 `yaml:"aabbMultiplier"`

	// InitialCapacity is the arena's starting size. It doubles on
	// exhaustion, so this only controls how many proxies fit before
	// the first reallocation.
	InitialCapacity int `yaml:"initialCapacity"`

	// Debug enables the single-writer reentrancy check and
	// debug-level structured logging of Balance/Shuffle activity.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the constants the reference engine ships:
// a 0.1 unit fatten margin, a 2x displacement multiplier, and an
// initial arena of 16 nodes.
func DefaultConfig() Config {
	return Config{
		AABBExtension:   0.1,
		AABBMultiplier:  2.0,
		InitialCapacity: 16,
		Debug:           false,
	}
}
