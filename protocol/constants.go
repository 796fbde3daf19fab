package protocol

const (
	// WelcomeMessage is sent to every client immediately after accept
	WelcomeMessage = "Welcome to Blobstore TCP Service!\n"

	// InvalidCommandReply is sent for unknown verbs and wrong arities
	InvalidCommandReply = "Invalid command\n"

	// ErrorReplyPrefix prefixes the reply for any internal failure; the
	// session closes after sending it
	ErrorReplyPrefix = "Error: "
)
