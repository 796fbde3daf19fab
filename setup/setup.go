package setup

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blobserve/blobserve/blobapi"
	"github.com/blobserve/blobserve/engine"
	"github.com/blobserve/blobserve/events"
	"github.com/blobserve/blobserve/server"
	"github.com/blobserve/blobserve/storage"
)

const (
	// EnvListen - TCP listen address of the blob protocol
	EnvListen = "listen"
	// EnvHTTPListen - listen address of the HTTP API, empty disables it
	EnvHTTPListen = "http_listen"
	// EnvEngineBin - path to the engine binary, or "embedded" for the
	// in-process engine
	EnvEngineBin = "engine_bin"
	// EnvStorageRoot - root directory handed to the engine
	EnvStorageRoot = "storage_root"
	// EnvLogLevel - logrus level name
	EnvLogLevel = "log_level"
	// EnvZipkinURL - zipkin span collector URL, empty disables tracing
	EnvZipkinURL = "zipkin_url"
)

// EngineEmbedded selects the in-process engine instead of an external binary
const EngineEmbedded = "embedded"

var defaults = make(map[string]string)
var log = logrus.New().WithField("logger", "setup")

func canonKey(key string) string {
	return strings.Replace(strings.Replace(strings.ToLower(key), "-", "_", -1), ".", "_", -1)
}

// SetDefault sets the fallback value for a config key
func SetDefault(key string, value string) {
	defaults[canonKey(key)] = value
}

// GetString returns the configured value of a key
func GetString(key string) string {
	return defaults[canonKey(key)]
}

// Config is the full service configuration, built once at startup and never
// mutated afterwards
type Config struct {
	Listen      string
	HTTPListen  string
	EngineBin   string
	StorageRoot string
	ZipkinURL   string
}

func configFromEnv() *Config {
	SetDefault(EnvLogLevel, "debug")
	SetDefault(EnvListen, ":9000")
	SetDefault(EnvHTTPListen, ":8081")
	SetDefault(EnvEngineBin, "./bin/blobstore")
	SetDefault(EnvStorageRoot, "root")
	SetDefault(EnvZipkinURL, "")

	for _, v := range os.Environ() {
		vals := strings.Split(v, "=")
		defaults[canonKey(vals[0])] = strings.Join(vals[1:], "=")
	}

	logLevel, err := logrus.ParseLevel(GetString(EnvLogLevel))
	if err != nil {
		logrus.WithError(err).Fatalln("Invalid log level.")
	}
	logrus.SetLevel(logLevel)

	gin.SetMode(gin.ReleaseMode)
	if logLevel == logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	}

	return &Config{
		Listen:      GetString(EnvListen),
		HTTPListen:  GetString(EnvHTTPListen),
		EngineBin:   GetString(EnvEngineBin),
		StorageRoot: GetString(EnvStorageRoot),
		ZipkinURL:   GetString(EnvZipkinURL),
	}
}

// InitFromEnv builds the whole service from environment variables: the
// engine gateway, the TCP server, and (unless disabled) the HTTP API
func InitFromEnv() (*server.Server, *blobapi.Server, error) {
	cfg := configFromEnv()

	setTracer(cfg.Listen, cfg.ZipkinURL)

	gateway, err := newGateway(cfg)
	if err != nil {
		return nil, nil, err
	}

	stream := events.NewStream()
	srv := server.New(cfg.Listen, gateway, stream)

	var api *blobapi.Server
	if cfg.HTTPListen != "" {
		api = blobapi.New(cfg.HTTPListen, gateway, stream)
	}
	return srv, api, nil
}

func newGateway(cfg *Config) (engine.Gateway, error) {
	if cfg.EngineBin == EngineEmbedded {
		log.WithField("root", cfg.StorageRoot).Info("Using embedded storage engine")
		store, err := storage.Open(cfg.StorageRoot)
		if err != nil {
			return nil, err
		}
		return engine.NewEmbedded(store), nil
	}
	log.WithField("bin", cfg.EngineBin).WithField("root", cfg.StorageRoot).Info("Using external storage engine")
	return engine.NewExecGateway(cfg.EngineBin, cfg.StorageRoot), nil
}
