// Package config holds the signaling server's configuration and the
// optional YAML file override for it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultBindAddress matches the CLI contract in spec §6.
const DefaultBindAddress = "0.0.0.0:9001"

// DefaultMaxRetransmits is the default K for the unordered,
// retransmit-bounded data channel profile (spec §4.6), advertised to peers
// on /config. The peer façades do not read it: each constructor takes K as
// an explicit argument and has no default of its own.
const DefaultMaxRetransmits = uint16(10)

// ICEServer mirrors the subset of webrtc.ICEServer this module cares
// about, kept independent of the pion/webrtc types so config stays
// decodable without pulling in the RTC stack.
type ICEServer struct {
	URLs       []string `yaml:"urls" json:"urls"`
	Username   string   `yaml:"username,omitempty" json:"username,omitempty"`
	Credential string   `yaml:"credential,omitempty" json:"credential,omitempty"`
}

// Config holds the signaling server's tunable parameters.
type Config struct {
	BindAddress    string      `yaml:"bind_address" json:"bind_address"`
	ICEServers     []ICEServer `yaml:"ice_servers" json:"ice_servers"`
	MaxRetransmits uint16      `yaml:"max_retransmits" json:"max_retransmits"`
}

// Default returns the zero-config deployment: the §6 default bind
// address, Google's public STUN servers, and K=10.
func Default() Config {
	return Config{
		BindAddress: DefaultBindAddress,
		ICEServers: []ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"}},
		},
		MaxRetransmits: DefaultMaxRetransmits,
	}
}

// LoadFile reads an optional YAML override of Default(). Fields absent
// from the file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
