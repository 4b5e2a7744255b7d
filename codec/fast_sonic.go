//go:build amd64 && (linux || windows || darwin)

package codec

// Fast returns the fastest JSON Serializer available on this platform.
func Fast() Serializer {
	return Sonic(SonicConfig{})
}

// FastName reports which backend Fast selects.
func FastName() string { return "sonic" }
