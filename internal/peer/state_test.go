package peer

import "testing"

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateIdle:          "idle",
		StateOffering:      "offering",
		StateAwaitingOffer: "awaiting-offer",
		StateAwaitingIce:   "awaiting-ice",
		StateOpen:          "open",
		StateClosed:        "closed",
		State(99):          "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
