package peer

// State is the per-remote-peer negotiation state from spec §4.6.
type State int

const (
	StateIdle State = iota
	StateOffering
	StateAwaitingOffer
	StateAwaitingIce
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOffering:
		return "offering"
	case StateAwaitingOffer:
		return "awaiting-offer"
	case StateAwaitingIce:
		return "awaiting-ice"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
