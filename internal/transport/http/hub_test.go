package http

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-quiz-service/internal/domain"
)

func TestHubRoomDelivery(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a := hub.register("a")
	b := hub.register("b")
	hub.register("c")

	hub.Attach("1234", "a")
	hub.Attach("1234", "b")
	hub.Attach("1234", "ghost")
	assert.Equal(t, 2, hub.RoomSize("1234"))

	hub.Broadcast("1234", domain.Event{Type: domain.EventQuizStarted})
	hub.SendTo("a", domain.Event{Type: domain.EventJoined})

	require.Len(t, a.send, 2)
	require.Len(t, b.send, 1)
	assert.Equal(t, domain.EventQuizStarted, (<-a.send).Type)
	assert.Equal(t, domain.EventJoined, (<-a.send).Type)

	hub.Detach("1234", "b")
	hub.Broadcast("1234", domain.Event{Type: domain.EventNewQuestion})
	assert.Len(t, b.send, 1)

	hub.CloseRoom("1234")
	assert.Zero(t, hub.RoomSize("1234"))
}

func TestHubDropsOldestForSlowClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := hub.register("slow")
	hub.Attach("1234", "slow")

	for i := 0; i < sendBuffer+5; i++ {
		hub.Broadcast("1234", domain.Event{Type: domain.EventNewQuestion, Payload: i})
	}
	require.Len(t, c.send, sendBuffer)
	first := <-c.send
	assert.Equal(t, 5, first.Payload)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := hub.register("a")
	hub.Attach("1234", "a")

	hub.unregister("a")
	_, open := <-c.send
	assert.False(t, open)
	assert.Zero(t, hub.RoomSize("1234"))

	// sends to a gone connection are ignored
	hub.SendTo("a", domain.Event{Type: domain.EventJoined})
	hub.unregister("a")
}
