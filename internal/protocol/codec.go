package protocol

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a Message into the JSON bytes sent as a single
// WebSocket frame. The codec is fixed for the deployment and must match
// between server and peer, per the transport contract in spec §6.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode signal message: %w", err)
	}
	return data, nil
}

// Decode deserializes a single WebSocket frame into a Message. A decode
// failure is a malformed-frame condition: callers must log and drop it
// per spec §7, never tear down the connection.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode signal message: %w", err)
	}
	return msg, nil
}
