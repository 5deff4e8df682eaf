// Package rtcutil provides the peer-connection and SDP helpers (C8):
// translating a ConnectionType into platform ICE-server configuration,
// creating offers/answers, and serializing ICE candidates.
package rtcutil

// ConnectionKind discriminates the three NAT-traversal profiles from spec
// §4.7.
type ConnectionKind int

const (
	// Local omits ICE servers entirely: LAN-only connectivity.
	Local ConnectionKind = iota
	// Stun supplies one or more STUN server URLs.
	Stun
	// StunAndTurn additionally supplies TURN URLs and credentials as a
	// NAT-traversal fallback.
	StunAndTurn
)

// ConnectionType is the enumerated ICE-server configuration a peer façade
// is constructed with.
type ConnectionType struct {
	Kind       ConnectionKind
	StunURLs   []string
	TurnURLs   []string
	Username   string
	Credential string
}

// NewLocal builds a LAN-only ConnectionType (no ICE servers).
func NewLocal() ConnectionType {
	return ConnectionType{Kind: Local}
}

// NewStun builds a ConnectionType using the given STUN server URLs.
func NewStun(urls ...string) ConnectionType {
	return ConnectionType{Kind: Stun, StunURLs: urls}
}

// NewStunAndTurn builds a ConnectionType with both STUN and TURN servers,
// the latter carrying the given credentials.
func NewStunAndTurn(stunURLs, turnURLs []string, username, credential string) ConnectionType {
	return ConnectionType{
		Kind:       StunAndTurn,
		StunURLs:   stunURLs,
		TurnURLs:   turnURLs,
		Username:   username,
		Credential: credential,
	}
}
