package session

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Store is the durable home of the Session. Implementations are safe for use
// by multiple goroutines within one process. Nothing coordinates separate
// processes sharing the same backing storage; the last writer wins.
type Store interface {
	// Read returns the current Session, or nil if there is none. Stored data
	// that cannot be understood is treated as absent.
	Read(context.Context) (*Session, error)
	// Write replaces the Session wholesale.
	Write(context.Context, Session) error
	// Update merges the Patch into the current Session and returns the result.
	// If there is no current Session, Update returns nil and creates nothing.
	Update(context.Context, Patch) (*Session, error)
	// Clear removes the Session. Clearing an absent Session is not an error.
	Clear(context.Context) error
}

var sessionSchema = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "created"],
	"properties": {
		"id": { "type": "string", "minLength": 1 },
		"name": { "type": "string" },
		"profile": { "type": "string" },
		"department_id": { "type": "string" },
		"email": { "type": "string" },
		"hashed_id": { "type": "string" },
		"token": { "type": "string" },
		"created": { "type": "string", "format": "date-time" }
	}
}`)

// decode returns the Session held in data, or nil if data does not hold a
// well-formed Session.
func decode(data []byte, source string) *Session {
	result, err := gojsonschema.Validate(
		sessionSchema,
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		log.Printf("WARNING: ignoring unparsable session in %s: %s", source, err)
		return nil
	}
	if !result.Valid() {
		log.Printf(
			"WARNING: ignoring malformed session in %s: %v",
			source,
			result.Errors(),
		)
		return nil
	}
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		log.Printf("WARNING: ignoring unparsable session in %s: %s", source, err)
		return nil
	}
	return s
}

func encode(s Session) ([]byte, error) {
	data, err := json.Marshal(s)
	return data, errors.Wrap(err, "error marshaling session")
}

// update implements Store.Update in terms of unsynchronized read and write
// functions. Callers hold whatever lock makes the pair atomic.
func update(
	read func() (*Session, error),
	write func(Session) error,
	patch Patch,
) (*Session, error) {
	s, err := read()
	if err != nil || s == nil {
		return nil, err
	}
	patch.applyTo(s)
	if err := write(*s); err != nil {
		return nil, err
	}
	return s, nil
}
