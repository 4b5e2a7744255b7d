//go:build !amd64 || (amd64 && !(linux || windows || darwin))

package codec

// Fast returns the fastest JSON Serializer available on this platform.
func Fast() Serializer {
	return GoJSON(nil, nil)
}

// FastName reports which backend Fast selects.
func FastName() string { return "go-json" }
