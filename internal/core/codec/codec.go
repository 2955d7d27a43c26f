// Package codec turns task collections and session markers into the byte
// snapshots kept by the snapshot store.
package codec

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"taskflow/internal/core/domain"
)

const schemaBaseURL = "https://taskflow.local/"

var ErrInvalidSnapshot = errors.New("invalid snapshot")

//go:embed schema/*.json
var schemaFS embed.FS

var (
	tasksSchema   = mustCompile("schema/tasks.json")
	sessionSchema = mustCompile("schema/session.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(name)

	if err != nil {
		panic(fmt.Sprintf("codec: read %s: %v", name, err))
	}

	url := schemaBaseURL + name
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("codec: load %s: %v", name, err))
	}

	return compiler.MustCompile(url)
}

// EncodeTasks always produces a JSON array, "[]" for an empty collection.
func EncodeTasks(tasks []domain.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}

	return json.Marshal(tasks)
}

func DecodeTasks(data []byte) ([]domain.Task, error) {
	if err := validate(tasksSchema, data); err != nil {
		return nil, err
	}

	var tasks []domain.Task

	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	return tasks, nil
}

func EncodeSession(session domain.Session) ([]byte, error) {
	return json.Marshal(session)
}

func DecodeSession(data []byte) (domain.Session, error) {
	if err := validate(sessionSchema, data); err != nil {
		return domain.Session{}, err
	}

	var session domain.Session

	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	return session, nil
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var doc any

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, describe(err))
	}

	return nil
}

// describe flattens a schema failure into its first leaf cause.
func describe(err error) string {
	var verr *jsonschema.ValidationError

	if !errors.As(err, &verr) {
		return err.Error()
	}

	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}

	location := verr.InstanceLocation

	if location == "" {
		location = "/"
	}

	return fmt.Sprintf("%s: %s", location, verr.Message)
}
