package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func userPtr(u UserId) *UserId { return &u }

func TestCodecRoundTrip(t *testing.T) {
	mid := "0"
	idx := uint16(0)

	cases := []Message{
		SessionJoin("s1", boolPtr(true)),
		SessionJoin("s1", nil),
		SessionReady("s1", 2, boolPtr(false)),
		SdpOfferMsg("s1", userPtr(3), "v=0\r\n..."),
		SdpAnswerMsg("s1", nil, "v=0\r\n..."),
		IceCandidateMsg("s1", userPtr(7), IceCandidate{
			Candidate:     "candidate:1 1 UDP 1 1.2.3.4 5 typ host",
			SDPMid:        &mid,
			SDPMLineIndex: &idx,
		}),
		ErrorMsg("s1", userPtr(9), "host already present"),
	}

	for _, want := range cases {
		data, err := Encode(want)
		require.NoError(t, err)

		got, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	require.Error(t, err)
}

func TestWithSenderRewritesPeerId(t *testing.T) {
	m := SdpOfferMsg("s1", userPtr(42), "sdp").WithSender(7)
	require.NotNil(t, m.PeerId)
	require.Equal(t, UserId(7), *m.PeerId)
}
