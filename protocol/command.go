package protocol

import (
	"strings"
)

// Verb identifies a protocol command
type Verb string

const (
	// VerbPut - store a blob under a key
	VerbPut = Verb("put")
	// VerbGet - retrieve a blob by key
	VerbGet = Verb("get")
	// VerbExists - check for the presence of a key
	VerbExists = Verb("exists")
	// VerbStat - report metadata for a key
	VerbStat = Verb("stat")
	// VerbRm - remove a key
	VerbRm = Verb("rm")
	// VerbList - list all keys
	VerbList = Verb("list")
	// VerbInvalid - anything that does not match the grammar
	VerbInvalid = Verb("invalid")
)

// Command is one parsed client request. Payload is still in its
// transport encoding for put - decode it with DecodePayload before
// handing the bytes to the engine.
type Command struct {
	Verb    Verb
	Key     string
	Payload string
}

// Tokenize splits one line of client input into whitespace-delimited tokens
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// Parse validates a token list against the command grammar and returns a
// Command. Unknown verbs and wrong arities yield VerbInvalid - those never
// reach the engine.
func Parse(tokens []string) Command {
	if len(tokens) == 0 {
		return Command{Verb: VerbInvalid}
	}

	switch tokens[0] {
	case "put":
		if len(tokens) == 3 {
			return Command{Verb: VerbPut, Key: tokens[1], Payload: tokens[2]}
		}
	case "get":
		if len(tokens) == 2 {
			return Command{Verb: VerbGet, Key: tokens[1]}
		}
	case "exists":
		if len(tokens) == 2 {
			return Command{Verb: VerbExists, Key: tokens[1]}
		}
	case "stat":
		if len(tokens) == 2 {
			return Command{Verb: VerbStat, Key: tokens[1]}
		}
	case "rm":
		if len(tokens) == 2 {
			return Command{Verb: VerbRm, Key: tokens[1]}
		}
	case "list":
		if len(tokens) == 1 {
			return Command{Verb: VerbList}
		}
	}
	return Command{Verb: VerbInvalid}
}
