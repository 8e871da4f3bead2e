package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/canvas-service/internal/service"
)

type fakeConn struct {
	id     string
	roomID string
	msgs   []service.Message
}

func (c *fakeConn) Send(msg service.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeConn) Close() error   { return nil }
func (c *fakeConn) ID() string     { return c.id }
func (c *fakeConn) RoomID() string { return c.roomID }

func TestHubBroadcastReachesWholeRoomOnly(t *testing.T) {
	t.Parallel()

	h := NewHub()
	a := &fakeConn{id: "a", roomID: "global"}
	b := &fakeConn{id: "b", roomID: "global"}
	c := &fakeConn{id: "c", roomID: "other"}
	h.Add(a)
	h.Add(b)
	h.Add(c)

	h.Broadcast("global", service.Message{Type: "state"})

	assert.Len(t, a.msgs, 1)
	assert.Len(t, b.msgs, 1)
	assert.Empty(t, c.msgs, "чужая комната не должна ничего получать")
}

func TestHubRelaySkipsSender(t *testing.T) {
	t.Parallel()

	h := NewHub()
	a := &fakeConn{id: "a", roomID: "global"}
	b := &fakeConn{id: "b", roomID: "global"}
	h.Add(a)
	h.Add(b)

	h.Relay("global", "a", service.Message{Type: "cursor"})

	assert.Empty(t, a.msgs)
	require.Len(t, b.msgs, 1)
	assert.Equal(t, "cursor", b.msgs[0].Type)
}

func TestHubSendTargetsOneConn(t *testing.T) {
	t.Parallel()

	h := NewHub()
	a := &fakeConn{id: "a", roomID: "global"}
	h.Add(a)

	require.NoError(t, h.Send("a", service.Message{Type: "joined"}))
	assert.Len(t, a.msgs, 1)

	// незнакомое соединение — stale, не ошибка
	assert.NoError(t, h.Send("ghost", service.Message{Type: "joined"}))
}

func TestHubRemove(t *testing.T) {
	t.Parallel()

	h := NewHub()
	a := &fakeConn{id: "a", roomID: "global"}
	h.Add(a)
	h.Remove(a)

	h.Broadcast("global", service.Message{Type: "state"})
	assert.Empty(t, a.msgs)
}
