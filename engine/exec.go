package engine

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("logger", "engine")

// ExecGateway invokes an external engine binary, one subprocess per command.
// It is the only type that creates or deletes temporary files; every temp
// file is scoped to a single invocation and removed on all exit paths.
type ExecGateway struct {
	bin  string
	root string
}

// NewExecGateway creates a gateway around the engine binary at bin, storing
// under the given root directory
func NewExecGateway(bin string, root string) *ExecGateway {
	return &ExecGateway{bin: bin, root: root}
}

func (g *ExecGateway) invoke(op string, args ...string) (*Result, error) {
	span := opentracing.StartSpan("engine_" + op)
	defer span.Finish()

	cmd := exec.Command(g.bin, append([]string{op, g.root}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	status := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			log.WithField("bin", g.bin).WithError(err).Error("Failed to invoke engine")
			return nil, err
		}
		status = exitErr.ExitCode()
	}
	return &Result{Status: status, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

func tempPath(op string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return filepath.Join(os.TempDir(), "blobserve-"+op+"-"+id.String()), nil
}

// Put writes the blob to a uniquely named temp file, hands its path to the
// engine, and deletes the file once the invocation returns
func (g *ExecGateway) Put(key string, data []byte) (*Result, error) {
	path, err := tempPath("put")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		log.WithField("key", key).WithError(err).Error("Failed to stage blob for engine")
		return nil, err
	}
	defer os.Remove(path)

	return g.invoke("put", key, path)
}

// Get reserves a temp path for the engine to populate; on success the file
// contents are read back and returned, on failure the engine diagnostics are
// left in the Result. The temp file is deleted either way.
func (g *ExecGateway) Get(key string) (*Result, []byte, error) {
	path, err := tempPath("get")
	if err != nil {
		return nil, nil, err
	}
	defer os.Remove(path)

	res, err := g.invoke("get", key, path)
	if err != nil {
		return nil, nil, err
	}
	if !res.Success() {
		return res, nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithField("key", key).WithError(err).Error("Failed to read blob back from engine")
		return nil, nil, err
	}
	return res, data, nil
}

// Exists implements Gateway
func (g *ExecGateway) Exists(key string) (*Result, error) {
	return g.invoke("exists", key)
}

// Stat implements Gateway
func (g *ExecGateway) Stat(key string) (*Result, error) {
	return g.invoke("stat", key)
}

// Remove implements Gateway
func (g *ExecGateway) Remove(key string) (*Result, error) {
	return g.invoke("rm", key)
}

// List implements Gateway
func (g *ExecGateway) List() (*Result, error) {
	return g.invoke("list")
}
