package server

import (
	"net"

	"github.com/sirupsen/logrus"

	"github.com/blobserve/blobserve/engine"
	"github.com/blobserve/blobserve/events"
)

var log = logrus.WithField("logger", "server")

// Server is the blobserve TCP front end. It accepts connections forever and
// runs one independent session per connection; sessions share nothing but
// the gateway.
type Server struct {
	listen  string
	gateway engine.Gateway
	stream  *events.Stream
}

// New creates a new server - params are injected dependencies
func New(listenAddress string, gateway engine.Gateway, stream *events.Stream) *Server {
	return &Server{
		listen:  listenAddress,
		gateway: gateway,
		stream:  stream,
	}
}

// Run binds the listen address and serves until the process exits. A bind
// failure is fatal - it means the service is misconfigured.
func (s *Server) Run() {
	listener, err := net.Listen("tcp", s.listen)
	if err != nil {
		log.WithField("listen", s.listen).WithError(err).Fatalln("Failed to bind")
	}
	log.WithField("listen", s.listen).Info("Blobstore TCP server listening")
	s.serve(listener)
}

func (s *Server) serve(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			log.WithError(err).Error("Failed to accept connection")
			return
		}
		go newSession(conn, s.gateway, s.stream).run()
	}
}
