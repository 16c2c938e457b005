package systems

// Per-agent randomness is a pure function of (seed, agent index, frame), so
// results do not depend on which worker runs an agent or in what order.

const golden64 = 0x9e3779b97f4a7c15

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// agentHash returns 64 well-mixed bits for one agent in one frame.
func agentHash(seed uint64, agent int, frame uint64) uint64 {
	h := mix64(seed + golden64)
	h = mix64(h ^ uint64(agent)*golden64)
	return mix64(h ^ frame)
}

// unitFloat maps the top 24 bits of h to [0, 1).
func unitFloat(h uint64) float32 {
	return float32(h>>40) / (1 << 24)
}
