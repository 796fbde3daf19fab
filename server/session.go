package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/blobserve/blobserve/engine"
	"github.com/blobserve/blobserve/events"
	"github.com/blobserve/blobserve/protocol"
)

// Encoded payloads arrive on a single line, so the line buffer has to fit
// the largest blob a client may put.
const maxLineBytes = 16 * 1024 * 1024

// session owns one client connection end to end: welcome banner, read loop,
// dispatch, and teardown. Commands are handled strictly one at a time; any
// handler error is reported as an Error: line and ends the session.
type session struct {
	conn    net.Conn
	gateway engine.Gateway
	stream  *events.Stream
}

func newSession(conn net.Conn, gateway engine.Gateway, stream *events.Stream) *session {
	return &session{conn: conn, gateway: gateway, stream: stream}
}

func (s *session) run() {
	defer s.conn.Close()

	sessionsActive.Inc()
	defer sessionsActive.Dec()

	remote := s.conn.RemoteAddr().String()
	log.WithField("remote", remote).Debug("Session started")

	if _, err := io.WriteString(s.conn, protocol.WelcomeMessage); err != nil {
		log.WithField("remote", remote).WithError(err).Debug("Failed to send welcome")
		return
	}

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		tokens := protocol.Tokenize(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		reply, err := s.dispatch(protocol.Parse(tokens))
		if err != nil {
			commandErrors.Inc()
			log.WithField("remote", remote).WithError(err).Warn("Command failed, closing session")
			fmt.Fprintf(s.conn, "%s%s\n", protocol.ErrorReplyPrefix, err)
			return
		}
		if _, err := s.conn.Write(reply); err != nil {
			log.WithField("remote", remote).WithError(err).Debug("Failed to write reply")
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.WithField("remote", remote).WithError(err).Warn("Read failed, closing session")
		fmt.Fprintf(s.conn, "%s%s\n", protocol.ErrorReplyPrefix, err)
		return
	}
	log.WithField("remote", remote).Debug("Session closed by peer")
}

// dispatch executes one parsed command against the gateway and returns the
// exact reply bytes for the client. A returned error means the session must
// end; engine failures are not errors, their output is the reply.
func (s *session) dispatch(cmd protocol.Command) ([]byte, error) {
	if cmd.Verb == protocol.VerbInvalid {
		commandsServed.WithLabelValues(string(protocol.VerbInvalid)).Inc()
		return []byte(protocol.InvalidCommandReply), nil
	}

	start := time.Now()
	var reply []byte
	var res *engine.Result

	switch cmd.Verb {
	case protocol.VerbPut:
		data, err := protocol.DecodePayload(cmd.Payload)
		if err != nil {
			return nil, err
		}
		res, err = s.gateway.Put(cmd.Key, data)
		if err != nil {
			return nil, err
		}
		reply = res.Combined()

	case protocol.VerbGet:
		var blob []byte
		var err error
		res, blob, err = s.gateway.Get(cmd.Key)
		if err != nil {
			return nil, err
		}
		if res.Success() {
			reply = []byte(protocol.EncodePayload(blob) + "\n")
		} else {
			reply = res.Combined()
		}

	case protocol.VerbExists:
		var err error
		res, err = s.gateway.Exists(cmd.Key)
		if err != nil {
			return nil, err
		}
		reply = res.Combined()

	case protocol.VerbStat:
		var err error
		res, err = s.gateway.Stat(cmd.Key)
		if err != nil {
			return nil, err
		}
		reply = res.Combined()

	case protocol.VerbRm:
		var err error
		res, err = s.gateway.Remove(cmd.Key)
		if err != nil {
			return nil, err
		}
		reply = res.Combined()

	case protocol.VerbList:
		var err error
		res, err = s.gateway.List()
		if err != nil {
			return nil, err
		}
		reply = res.Combined()
	}

	commandsServed.WithLabelValues(string(cmd.Verb)).Inc()
	if s.stream != nil {
		s.stream.Publish(events.CommandEvent{
			Verb:       string(cmd.Verb),
			Key:        cmd.Key,
			Status:     res.Status,
			DurationMs: time.Since(start).Milliseconds(),
		})
	}
	return reply, nil
}
