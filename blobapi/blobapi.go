package blobapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/blobserve/blobserve/engine"
	"github.com/blobserve/blobserve/events"
)

var log = logrus.WithField("logger", "blob_api")

// Server is the HTTP facade over the blob engine. It exposes the same
// operations as the TCP protocol plus the service endpoints (ping, metrics,
// event stream).
type Server struct {
	gateway engine.Gateway
	Engine  *gin.Engine
	listen  string
}

// New creates the HTTP API on the given listen address
func New(listenAddress string, gateway engine.Gateway, stream *events.Stream) *Server {
	s := &Server{
		gateway: gateway,
		Engine:  gin.New(),
		listen:  listenAddress,
	}
	s.Engine.Use(gin.Logger(), gin.Recovery())

	s.Engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	promHandler := promhttp.Handler()
	s.Engine.GET("/metrics", func(c *gin.Context) {
		promHandler.ServeHTTP(c.Writer, c.Request)
	})
	if stream != nil {
		s.Engine.GET("/events", func(c *gin.Context) {
			events.WSHandler(stream, c.Writer, c.Request)
		})
	}

	createBlobAPI(s)
	return s
}

// Run starts the HTTP API
func (s *Server) Run() {
	log.WithField("listen", s.listen).Info("Starting blob HTTP API")
	if err := s.Engine.Run(s.listen); err != nil {
		log.WithError(err).Fatalln("Failed to start blob HTTP API")
	}
}

func createBlobAPI(s *Server) {
	blobs := s.Engine.Group("/blobs")
	{
		blobs.GET("", s.listBlobs)
		blobs.POST("/:key", s.createBlob)
		blobs.GET("/:key", s.getBlob)
		blobs.HEAD("/:key", s.headBlob)
		blobs.DELETE("/:key", s.deleteBlob)
	}
}

// a key must be a single non-empty token with no whitespace
func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, " \t\r\n")
}

func renderError(err error, c *gin.Context) {
	switch e := err.(type) {
	case *Error:
		c.Data(e.HTTPStatus, "text/plain", []byte(e.Message))
	default:
		log.WithError(err).Error("Internal server error")
		c.Status(http.StatusInternalServerError)
	}
}

// engine failures map to 404 for missing keys and 502 otherwise; the
// engine's own diagnostics are the response body
func renderEngineFailure(res *engine.Result, c *gin.Context) {
	status := http.StatusBadGateway
	if res.Status == 2 {
		status = http.StatusNotFound
	}
	c.Data(status, "text/plain", res.Combined())
}

func (s *Server) createBlob(c *gin.Context) {
	key := c.Param("key")
	if !validKey(key) {
		renderError(ErrInvalidKey, c)
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		renderError(ErrReadingInput, c)
		return
	}

	res, err := s.gateway.Put(key, data)
	if err != nil {
		renderError(err, c)
		return
	}
	if !res.Success() {
		renderEngineFailure(res, c)
		return
	}
	c.Data(http.StatusOK, "text/plain", res.Combined())
}

func (s *Server) getBlob(c *gin.Context) {
	key := c.Param("key")
	if !validKey(key) {
		renderError(ErrInvalidKey, c)
		return
	}

	res, blob, err := s.gateway.Get(key)
	if err != nil {
		renderError(err, c)
		return
	}
	if !res.Success() {
		c.Data(http.StatusNotFound, "text/plain", res.Combined())
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", blob)
}

func (s *Server) headBlob(c *gin.Context) {
	key := c.Param("key")
	if !validKey(key) {
		renderError(ErrInvalidKey, c)
		return
	}

	res, err := s.gateway.Exists(key)
	if err != nil {
		renderError(err, c)
		return
	}
	if res.Success() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusNotFound)
	}
}

func (s *Server) deleteBlob(c *gin.Context) {
	key := c.Param("key")
	if !validKey(key) {
		renderError(ErrInvalidKey, c)
		return
	}

	res, err := s.gateway.Remove(key)
	if err != nil {
		renderError(err, c)
		return
	}
	if !res.Success() {
		renderEngineFailure(res, c)
		return
	}
	c.Data(http.StatusOK, "text/plain", res.Combined())
}

func (s *Server) listBlobs(c *gin.Context) {
	res, err := s.gateway.List()
	if err != nil {
		renderError(err, c)
		return
	}
	if !res.Success() {
		renderEngineFailure(res, c)
		return
	}
	c.Data(http.StatusOK, "text/plain", res.Combined())
}
