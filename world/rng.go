package world

import "math/rand/v2"

// Random streams, one per consumer, so adding a draw to one stage never
// shifts the values another stage sees.
const (
	StreamExplore uint64 = iota
	StreamCuriosity
	StreamChaos
)

// mix64 is the splitmix64 finalizer; it spreads correlated inputs
// (sequential frames, sequential agent indices) across the full state space.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// FrameRand returns a generator seeded from (run seed, frame, agent, stream).
// Every draw in the simulation loop comes from one of these, which makes
// replays bit-reproducible and independent of agent iteration order; no
// generator state needs to be serialized.
func FrameRand(seed int64, frame uint64, agent uint32, stream uint64) *rand.Rand {
	hi := mix64(uint64(seed) ^ mix64(frame))
	lo := mix64(uint64(agent)<<8 | stream)
	return rand.New(rand.NewPCG(hi, lo))
}
