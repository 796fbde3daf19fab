package protocol

// BadPayload indicates a put payload that could not be decoded from its
// transport encoding
type BadPayload struct {
	message string
}

func (bp *BadPayload) Error() string {
	return bp.message
}
