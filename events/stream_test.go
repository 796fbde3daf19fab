package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribersReceivePublishedEvents(t *testing.T) {
	stream := NewStream()
	ch1, cancel1 := stream.Subscribe()
	defer cancel1()
	ch2, cancel2 := stream.Subscribe()
	defer cancel2()

	stream.Publish(CommandEvent{Verb: "put", Key: "k", Status: 0})

	for _, ch := range []<-chan CommandEvent{ch1, ch2} {
		event := <-ch
		assert.Equal(t, "put", event.Verb)
		assert.Equal(t, "k", event.Key)
	}
}

func TestCancelledSubscriberStopsReceiving(t *testing.T) {
	stream := NewStream()
	ch, cancel := stream.Subscribe()
	cancel()

	stream.Publish(CommandEvent{Verb: "rm", Key: "k"})

	select {
	case event := <-ch:
		t.Fatalf("unexpected event after cancel: %+v", event)
	default:
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	stream := NewStream()
	_, cancel := stream.Subscribe()
	defer cancel()

	// well past the channel buffer; must not deadlock
	for i := 0; i < subscriberBuffer*3; i++ {
		stream.Publish(CommandEvent{Verb: "list"})
	}
}

func TestWSHandlerStreamsEventsAsJSON(t *testing.T) {
	stream := NewStream()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WSHandler(stream, w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the handler subscribes after the handshake completes, so keep
	// publishing until the event comes through
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			stream.Publish(CommandEvent{Verb: "get", Key: "greeting", Status: 0, DurationMs: 3})
			time.Sleep(10 * time.Millisecond)
		}
	}()

	var event CommandEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "get", event.Verb)
	assert.Equal(t, "greeting", event.Key)
	assert.Equal(t, int64(3), event.DurationMs)
}
