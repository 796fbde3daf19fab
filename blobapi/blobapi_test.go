package blobapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blobserve/blobserve/engine"
)

func newTestAPI(gw engine.Gateway) *Server {
	gin.SetMode(gin.TestMode)
	return New(":0", gw, nil)
}

func doRequest(t *testing.T, s *Server, method string, path string, body []byte) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func TestCreateBlobRelaysEngineOutput(t *testing.T) {
	gw := &engine.MockGateway{}
	gw.On("Put", "greeting", []byte("hello")).
		Return(&engine.Result{Status: 0, Stdout: []byte("Stored key 'greeting' size=5\n")}, nil)

	w := doRequest(t, newTestAPI(gw), http.MethodPost, "/blobs/greeting", []byte("hello"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Stored key 'greeting' size=5\n", w.Body.String())
	gw.AssertExpectations(t)
}

func TestGetBlobReturnsRawBytes(t *testing.T) {
	gw := &engine.MockGateway{}
	gw.On("Get", "greeting").
		Return(&engine.Result{Status: 0}, []byte{0x00, 0xff, 0x01}, nil)

	w := doRequest(t, newTestAPI(gw), http.MethodGet, "/blobs/greeting", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x00, 0xff, 0x01}, w.Body.Bytes())
}

func TestGetBlobMapsEngineFailureTo404(t *testing.T) {
	gw := &engine.MockGateway{}
	gw.On("Get", "missing").
		Return(&engine.Result{Status: 1, Stderr: []byte("Error: key not found: missing\n")}, nil, nil)

	w := doRequest(t, newTestAPI(gw), http.MethodGet, "/blobs/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "key not found")
}

func TestHeadBlobReportsPresence(t *testing.T) {
	gw := &engine.MockGateway{}
	gw.On("Exists", "here").Return(&engine.Result{Status: 0, Stdout: []byte("1\n")}, nil)
	gw.On("Exists", "gone").Return(&engine.Result{Status: 2, Stdout: []byte("0\n")}, nil)

	s := newTestAPI(gw)
	assert.Equal(t, http.StatusOK, doRequest(t, s, http.MethodHead, "/blobs/here", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, s, http.MethodHead, "/blobs/gone", nil).Code)
}

func TestDeleteBlobMapsNotFoundStatus(t *testing.T) {
	gw := &engine.MockGateway{}
	gw.On("Remove", "gone").
		Return(&engine.Result{Status: 2, Stderr: []byte("Not found: gone\n")}, nil)

	w := doRequest(t, newTestAPI(gw), http.MethodDelete, "/blobs/gone", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found: gone\n", w.Body.String())
}

func TestListBlobs(t *testing.T) {
	gw := &engine.MockGateway{}
	gw.On("List").Return(&engine.Result{Status: 0, Stdout: []byte("a\nb\n")}, nil)

	w := doRequest(t, newTestAPI(gw), http.MethodGet, "/blobs", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a\nb\n", w.Body.String())
}

func TestRejectsWhitespaceKeys(t *testing.T) {
	gw := &engine.MockGateway{}

	w := doRequest(t, newTestAPI(gw), http.MethodGet, "/blobs/bad%20key", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	gw.AssertNotCalled(t, "Get", mock.Anything)
}

func TestPingEndpoint(t *testing.T) {
	gw := &engine.MockGateway{}
	w := doRequest(t, newTestAPI(gw), http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	gw := &engine.MockGateway{}
	w := doRequest(t, newTestAPI(gw), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
