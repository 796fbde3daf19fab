package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opentracing/opentracing-go"

	"github.com/blobserve/blobserve/storage"
)

// Embedded is a Gateway backed by an in-process storage.Store rather than an
// external binary. Outputs and status codes mirror the engine CLI exactly,
// so clients cannot tell the two apart.
type Embedded struct {
	store *storage.Store
}

// NewEmbedded creates an in-process gateway over the given store
func NewEmbedded(store *storage.Store) *Embedded {
	return &Embedded{store: store}
}

// The CLI reports status 1 for engine failures and 2 for missing keys.
const (
	statusError    = 1
	statusNotFound = 2
)

func success(stdout string) *Result {
	return &Result{Status: 0, Stdout: []byte(stdout)}
}

func failure(status int, stderr string) *Result {
	return &Result{Status: status, Stderr: []byte(stderr)}
}

// Put implements Gateway
func (e *Embedded) Put(key string, data []byte) (*Result, error) {
	span := opentracing.StartSpan("engine_put")
	defer span.Finish()

	if err := e.store.Put(key, data); err != nil {
		return failure(statusError, fmt.Sprintf("Error: %s\n", err)), nil
	}
	return success(fmt.Sprintf("Stored key '%s' size=%d\n", key, len(data))), nil
}

// Get implements Gateway
func (e *Embedded) Get(key string) (*Result, []byte, error) {
	span := opentracing.StartSpan("engine_get")
	defer span.Finish()

	data, err := e.store.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return failure(statusError, fmt.Sprintf("Error: key not found: %s\n", key)), nil, nil
	}
	if err != nil {
		return failure(statusError, fmt.Sprintf("Error: %s\n", err)), nil, nil
	}
	return success(""), data, nil
}

// Exists implements Gateway
func (e *Embedded) Exists(key string) (*Result, error) {
	span := opentracing.StartSpan("engine_exists")
	defer span.Finish()

	present, err := e.store.Exists(key)
	if err != nil {
		return failure(statusError, fmt.Sprintf("Error: %s\n", err)), nil
	}
	if !present {
		return &Result{Status: statusNotFound, Stdout: []byte("0\n")}, nil
	}
	return success("1\n"), nil
}

// Stat implements Gateway
func (e *Embedded) Stat(key string) (*Result, error) {
	span := opentracing.StartSpan("engine_stat")
	defer span.Finish()

	info, err := e.store.Stat(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return failure(statusNotFound, "Not found\n"), nil
	}
	if err != nil {
		return failure(statusError, fmt.Sprintf("Error: %s\n", err)), nil
	}
	return success(fmt.Sprintf("size=%d\n", info.Size)), nil
}

// Remove implements Gateway
func (e *Embedded) Remove(key string) (*Result, error) {
	span := opentracing.StartSpan("engine_rm")
	defer span.Finish()

	removed, err := e.store.Remove(key)
	if err != nil {
		return failure(statusError, fmt.Sprintf("Error: %s\n", err)), nil
	}
	if !removed {
		return failure(statusNotFound, fmt.Sprintf("Not found: %s\n", key)), nil
	}
	return success(fmt.Sprintf("Removed '%s'\n", key)), nil
}

// List implements Gateway
func (e *Embedded) List() (*Result, error) {
	span := opentracing.StartSpan("engine_list")
	defer span.Finish()

	keys, err := e.store.List()
	if err != nil {
		return failure(statusError, fmt.Sprintf("Error: %s\n", err)), nil
	}
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString("\n")
	}
	return success(sb.String()), nil
}
