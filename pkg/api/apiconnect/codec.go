package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec serializes plain Go structs with encoding/json. It registers
// under the name "json", replacing Connect's protojson codec, so the
// messages need no generated code.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON is the codec option used by both handlers and clients.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
