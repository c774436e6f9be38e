package handler

import (
	"bytes"
	"encoding/json"

	"go-bookstore-backoffice/internal/service"
)

var errPayload = &service.ValidationError{Field: "payload", Reason: "invalid"}

func empty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decode unmarshals the payload into v. A missing payload leaves v at its zero value.
func decode(raw json.RawMessage, v any) error {
	if empty(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errPayload
	}
	return nil
}

// decodeID accepts either a bare JSON string or an object carrying "objectId" or "id".
func decodeID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return requireID(id)
	}

	var wrapped struct {
		ObjectID string `json:"objectId"`
		ID       string `json:"id"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return "", errPayload
	}
	if wrapped.ObjectID != "" {
		return wrapped.ObjectID, nil
	}
	return requireID(wrapped.ID)
}

func requireID(id string) (string, error) {
	if id == "" {
		return "", &service.ValidationError{Field: "id", Reason: "required"}
	}
	return id, nil
}

// targeted is the {objectId, body} envelope used by update style commands.
type targeted struct {
	ObjectID string          `json:"objectId"`
	ID       string          `json:"id"`
	Body     json.RawMessage `json:"body"`
}

func decodeTarget(raw json.RawMessage) (string, json.RawMessage, error) {
	var t targeted
	if err := json.Unmarshal(raw, &t); err != nil {
		return "", nil, errPayload
	}
	id := t.ObjectID
	if id == "" {
		id = t.ID
	}
	id, err := requireID(id)
	if err != nil {
		return "", nil, err
	}
	return id, t.Body, nil
}
