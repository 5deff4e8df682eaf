package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1ureka/rendezvous/internal/protocol"
)

func TestOneToOneJoinSequence(t *testing.T) {
	r := NewOneToOne()

	// First joiner gets no introductions yet.
	res := r.OnJoin("s1", 1, false)
	require.NoError(t, res.Err)
	require.Empty(t, res.Introductions)

	// Second joiner triggers SessionReady fan-out: first=host, second=not.
	res = r.OnJoin("s1", 2, false)
	require.NoError(t, res.Err)
	require.Len(t, res.Introductions, 2)

	require.Equal(t, protocol.UserId(1), res.Introductions[0].To)
	require.Equal(t, protocol.UserId(2), *res.Introductions[0].Ready.PeerId)
	require.True(t, *res.Introductions[0].Ready.IsHost)

	require.Equal(t, protocol.UserId(2), res.Introductions[1].To)
	require.Equal(t, protocol.UserId(1), *res.Introductions[1].Ready.PeerId)
	require.False(t, *res.Introductions[1].Ready.IsHost)
}

func TestOneToOneThirdJoinerRejected(t *testing.T) {
	r := NewOneToOne()
	r.OnJoin("s1", 1, false)
	r.OnJoin("s1", 2, false)

	res := r.OnJoin("s1", 3, false)
	require.ErrorIs(t, res.Err, ErrSessionFull)
	require.Empty(t, res.Introductions)
}

func TestOneToOneOfferIdempotence(t *testing.T) {
	r := NewOneToOne()
	r.OnJoin("s1", 1, false)
	r.OnJoin("s1", 2, false)

	require.True(t, r.MarkOfferReceived("s1"))
	require.False(t, r.MarkOfferReceived("s1"))
}

func TestOneToOneDisconnectDeletesSession(t *testing.T) {
	r := NewOneToOne()
	r.OnJoin("s1", 1, false)
	r.OnJoin("s1", 2, false)
	require.Equal(t, 1, r.SessionCount())

	deleted := r.OnDisconnect(1)
	require.Empty(t, deleted, "session still has one member")
	require.Equal(t, 1, r.SessionCount())

	deleted = r.OnDisconnect(2)
	require.Equal(t, []protocol.SessionId{"s1"}, deleted)
	require.Equal(t, 0, r.SessionCount())
}

func TestOneToManyHostThenTwoClients(t *testing.T) {
	r := NewOneToMany()

	res := r.OnJoin("s2", 1, true)
	require.NoError(t, res.Err)
	require.Empty(t, res.Introductions)

	res = r.OnJoin("s2", 2, false)
	require.NoError(t, res.Err)
	require.Len(t, res.Introductions, 2)
	require.Equal(t, protocol.UserId(2), res.Introductions[0].To)
	require.True(t, *res.Introductions[0].Ready.IsHost)
	require.Equal(t, protocol.UserId(1), res.Introductions[1].To)
	require.False(t, *res.Introductions[1].Ready.IsHost)

	res = r.OnJoin("s2", 3, false)
	require.NoError(t, res.Err)
	require.Len(t, res.Introductions, 4, "newcomer meets both host and first client")

	peers := r.Peers("s2", 1)
	require.ElementsMatch(t, []protocol.UserId{2, 3}, peers)
}

func TestOneToManyClientBeforeHost(t *testing.T) {
	r := NewOneToMany()

	res := r.OnJoin("s2", 10, false)
	require.Empty(t, res.Introductions)

	res = r.OnJoin("s2", 20, true)
	require.NoError(t, res.Err)
	require.Len(t, res.Introductions, 2, "host (newcomer) is introduced to the pre-existing client")
	require.Equal(t, protocol.UserId(20), res.Introductions[0].To)
	require.True(t, *res.Introductions[0].Ready.IsHost, "host is offerer toward the pre-existing client")
}

func TestOneToManyDuplicateHostClaimRejected(t *testing.T) {
	r := NewOneToMany()
	r.OnJoin("s4", 1, true)

	res := r.OnJoin("s4", 2, true)
	require.ErrorIs(t, res.Err, ErrHostAlreadyPresent)

	host, ok := r.Host("s4")
	require.True(t, ok)
	require.Equal(t, protocol.UserId(1), host)
}

func TestOneToManyHostNotInUsersSet(t *testing.T) {
	r := NewOneToMany()
	r.OnJoin("s2", 1, true)
	peers := r.Peers("s2", 1)
	require.Empty(t, peers)
}

func TestManyToManyTriangle(t *testing.T) {
	r := NewManyToMany()

	res := r.OnJoin("s3", 1, false)
	require.Empty(t, res.Introductions)

	res = r.OnJoin("s3", 2, false)
	require.Len(t, res.Introductions, 2)

	res = r.OnJoin("s3", 3, false)
	require.Len(t, res.Introductions, 4)

	require.ElementsMatch(t, []protocol.UserId{2, 3}, r.Peers("s3", 1))
	require.ElementsMatch(t, []protocol.UserId{1, 3}, r.Peers("s3", 2))
	require.ElementsMatch(t, []protocol.UserId{1, 2}, r.Peers("s3", 3))
}

func TestManyToManyDisconnectPrunesAndDeletes(t *testing.T) {
	r := NewManyToMany()
	r.OnJoin("s3", 1, false)
	r.OnJoin("s3", 2, false)
	r.OnJoin("s3", 3, false)

	deleted := r.OnDisconnect(1)
	require.Empty(t, deleted)
	require.ElementsMatch(t, []protocol.UserId{3}, r.Peers("s3", 2))

	r.OnDisconnect(2)
	deleted = r.OnDisconnect(3)
	require.Equal(t, []protocol.SessionId{"s3"}, deleted)
	require.Equal(t, 0, r.SessionCount())
}
