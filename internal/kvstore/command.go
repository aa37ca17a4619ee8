package kvstore

import (
	"errors"
	"fmt"
	"strings"
)

// Verb is a supported key-value command name.
type Verb string

// Supported verbs.
const (
	VerbGet      Verb = "GET"
	VerbSet      Verb = "SET"
	VerbDel      Verb = "DEL"
	VerbKeys     Verb = "KEYS"
	VerbTTL      Verb = "TTL"
	VerbExpire   Verb = "EXPIRE"
	VerbLPush    Verb = "LPUSH"
	VerbRPush    Verb = "RPUSH"
	VerbLRange   Verb = "LRANGE"
	VerbHSet     Verb = "HSET"
	VerbHGet     Verb = "HGET"
	VerbHGetAll  Verb = "HGETALL"
	VerbSAdd     Verb = "SADD"
	VerbSMembers Verb = "SMEMBERS"
	VerbZAdd     Verb = "ZADD"
	VerbZRange   Verb = "ZRANGE"
)

var (
	// ErrEmptyCommand indicates a command line without any token.
	ErrEmptyCommand = errors.New("empty command")

	// ErrUnknownVerb indicates a verb outside the dispatch table.
	ErrUnknownVerb = errors.New("unsupported command")

	// ErrArity indicates too few operands for a known verb.
	ErrArity = errors.New("wrong number of arguments")

	// ErrInvalidArgument indicates an operand that failed to parse.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Command is a tokenized command line.
type Command struct {
	Verb Verb
	Args []string
}

// ParseCommand splits line on whitespace and resolves the verb
// case-insensitively against the dispatch table. It also checks the minimum
// operand count of the verb; operand values are validated at dispatch.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}

	verb := Verb(strings.ToUpper(fields[0]))
	h, ok := dispatch[verb]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownVerb, fields[0])
	}

	args := fields[1:]
	if len(args) < h.minArgs {
		return Command{}, fmt.Errorf("%w: %s expects at least %d, got %d", ErrArity, verb, h.minArgs, len(args))
	}
	return Command{Verb: verb, Args: args}, nil
}

// Verbs returns the supported verbs.
func Verbs() []Verb {
	out := make([]Verb, 0, len(dispatch))
	for v := range dispatch {
		out = append(out, v)
	}
	return out
}
