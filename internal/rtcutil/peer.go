package rtcutil

import (
	"github.com/pion/webrtc/v4"
)

// BuildPeerConnection translates a ConnectionType into a PeerConnection
// configured with the matching ICE-server set, following the teacher's
// newPeerConnection helper.
func BuildPeerConnection(ct ConnectionType) (*webrtc.PeerConnection, error) {
	var iceServers []webrtc.ICEServer

	switch ct.Kind {
	case Local:
		// No ICE servers: direct LAN connectivity only.
	case Stun:
		iceServers = append(iceServers, webrtc.ICEServer{URLs: ct.StunURLs})
	case StunAndTurn:
		iceServers = append(iceServers,
			webrtc.ICEServer{URLs: ct.StunURLs},
			webrtc.ICEServer{
				URLs:       ct.TurnURLs,
				Username:   ct.Username,
				Credential: ct.Credential,
			},
		)
	}

	return webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: iceServers})
}

// CreateDataChannel creates the unordered, retransmit-bounded data channel
// profile from spec §4.6: ordered=false, maxRetransmits=K. Only K is
// configurable; the channel is always unordered, so ordered delivery is not
// available from this helper.
func CreateDataChannel(pc *webrtc.PeerConnection, label string, maxRetransmits uint16) (*webrtc.DataChannel, error) {
	ordered := false
	mr := maxRetransmits
	return pc.CreateDataChannel(label, &webrtc.DataChannelInit{
		Ordered:        &ordered,
		MaxRetransmits: &mr,
	})
}

// CreateOffer asks the platform for an SDP offer and sets it as the local
// description, returning the SDP string to relay to the counterpart.
func CreateOffer(pc *webrtc.PeerConnection) (string, error) {
	offer, err := pc.CreateOffer(nil)
	if err != nil {
		return "", err
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		return "", err
	}
	return offer.SDP, nil
}

// CreateAnswer sets the remote offer, asks the platform for an SDP
// answer, sets it as the local description, and returns the SDP string.
func CreateAnswer(pc *webrtc.PeerConnection, remoteOfferSDP string) (string, error) {
	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  remoteOfferSDP,
	}); err != nil {
		return "", err
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		return "", err
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		return "", err
	}
	return answer.SDP, nil
}

// SetRemoteAnswer applies a received SDP answer as the remote description.
func SetRemoteAnswer(pc *webrtc.PeerConnection, sdp string) error {
	return pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  sdp,
	})
}
