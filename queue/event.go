/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package queue

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/abcretailors/retailstore/errors"
)

// Event is the recommended payload shape: a flat field to value mapping
// encoded as a JSON object.
type Event map[string]string

// Encode renders the event as a JSON object with sorted keys.
func (e Event) Encode() (string, error) {
	if e == nil {
		e = Event{}
	}
	b, err := json.Marshal(map[string]string(e))
	if err != nil {
		return "", errors.NewValidationError("event", err.Error())
	}
	return string(b), nil
}

// DecodeEvent parses a payload produced by Encode. Payloads that are not a
// flat object of string values are rejected.
func DecodeEvent(payload string) (Event, error) {
	if !gjson.Valid(payload) {
		return nil, errors.NewValidationError("payload", "not valid JSON")
	}
	var e Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return nil, errors.NewValidationError("payload", "not a flat object of strings: "+err.Error())
	}
	if e == nil {
		return nil, errors.NewValidationError("payload", "not a JSON object")
	}
	return e, nil
}

// Field reads one field of a JSON payload without decoding the rest. name is
// a gjson path, so plain field names work as is.
func Field(payload, name string) (string, bool) {
	res := gjson.Get(payload, name)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}
