package engine

// Result is the raw outcome of one engine invocation. The server relays
// Stdout/Stderr to clients byte-for-byte and only ever inspects Status.
type Result struct {
	Status int
	Stdout []byte
	Stderr []byte
}

// Success reports whether the engine completed with a zero status
func (r *Result) Success() bool {
	return r.Status == 0
}

// Combined returns stdout followed by stderr, the exact byte sequence
// relayed to clients
func (r *Result) Combined() []byte {
	out := make([]byte, 0, len(r.Stdout)+len(r.Stderr))
	out = append(out, r.Stdout...)
	out = append(out, r.Stderr...)
	return out
}

// Gateway is the sole point of contact with the blob storage engine. One
// method per verb; every method performs exactly one engine invocation.
//
// A non-zero engine status is not a Go error - it is carried in the Result
// and relayed to the client like any other outcome. Returned errors mean the
// invocation itself could not be carried out (temp file I/O, failure to
// spawn the engine).
type Gateway interface {
	// Put stores raw blob bytes under key
	Put(key string, data []byte) (*Result, error)

	// Get retrieves the blob stored under key. On success the raw blob
	// bytes are returned alongside the Result; on engine failure the
	// bytes are nil and the Result carries the diagnostic output.
	Get(key string) (*Result, []byte, error)

	// Exists checks for the presence of key
	Exists(key string) (*Result, error)

	// Stat reports metadata for key
	Stat(key string) (*Result, error)

	// Remove deletes key
	Remove(key string) (*Result, error)

	// List enumerates all stored keys
	List() (*Result, error)
}
