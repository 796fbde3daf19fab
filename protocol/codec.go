package protocol

import (
	"encoding/base64"
	"fmt"
)

// EncodePayload converts raw blob bytes into the text-safe form used on the
// wire
func EncodePayload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodePayload converts a text-safe payload back into raw blob bytes.
// Malformed input returns a *BadPayload so callers can report it to the
// client rather than crash the session.
func DecodePayload(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &BadPayload{message: fmt.Sprintf("invalid payload encoding: %s", err)}
	}
	return data, nil
}
