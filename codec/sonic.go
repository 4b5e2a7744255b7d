//go:build amd64 && (linux || windows || darwin)

package codec

import "github.com/bytedance/sonic"

type SonicConfig = sonic.Config

type sonicJSON struct {
	api     sonic.API
	numbers sonic.API // same config with UseNumber
}

// Sonic returns a Serializer backed by bytedance/sonic with the given config
// frozen once up front.
func Sonic(config SonicConfig) Serializer {
	withNumbers := config
	withNumbers.UseNumber = true
	return &sonicJSON{api: config.Froze(), numbers: withNumbers.Froze()}
}

func (s *sonicJSON) Marshal(v any) ([]byte, error) {
	return s.api.Marshal(v)
}

func (s *sonicJSON) Unmarshal(data []byte, v any) error {
	return s.api.Unmarshal(data, v)
}

func (s *sonicJSON) UnmarshalNumbers(data []byte, v any) error {
	return s.numbers.Unmarshal(data, v)
}
