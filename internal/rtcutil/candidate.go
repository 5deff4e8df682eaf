package rtcutil

import (
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/rendezvous/internal/protocol"
)

// ToCandidateInit converts a wire-format IceCandidate into the platform's
// ICECandidateInit, ready for AddICECandidate.
func ToCandidateInit(c protocol.IceCandidate) webrtc.ICECandidateInit {
	return webrtc.ICECandidateInit{
		Candidate:     c.Candidate,
		SDPMid:        c.SDPMid,
		SDPMLineIndex: c.SDPMLineIndex,
	}
}

// FromCandidate converts a locally gathered ICE candidate into the wire
// format relayed to the counterpart over the signaling socket.
func FromCandidate(c *webrtc.ICECandidate) protocol.IceCandidate {
	init := c.ToJSON()
	return protocol.IceCandidate{
		Candidate:     init.Candidate,
		SDPMid:        init.SDPMid,
		SDPMLineIndex: init.SDPMLineIndex,
	}
}
