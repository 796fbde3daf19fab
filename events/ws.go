package events

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var wsupgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the request to a websocket and streams command events
// to the peer as JSON until either side goes away
func WSHandler(stream *Stream, w http.ResponseWriter, r *http.Request) {
	conn, err := wsupgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("Failed to set websocket upgrade: %+v", err)
		return
	}

	worker := &wsWorker{conn: conn, stream: stream}
	log.Debugf("Streaming events to %v", conn.RemoteAddr())
	worker.Run()
}

type wsWorker struct {
	conn   *websocket.Conn
	stream *Stream
}

func (l *wsWorker) Run() {
	defer l.conn.Close()

	eventCh, cancel := l.stream.Subscribe()
	defer cancel()

	// the read loop only exists to notice the peer closing
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := l.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-eventCh:
			if err := l.conn.WriteJSON(event); err != nil {
				log.WithError(err).Debugf("Dropping event subscriber %v", l.conn.RemoteAddr())
				return
			}
		case <-done:
			return
		}
	}
}
