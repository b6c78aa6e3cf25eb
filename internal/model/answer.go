package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Answer holds the resolved value for every required field of a task.
// Keys exactly match TaskDescription.RequiredFields.
type Answer struct {
	// Fields lists field names in submission order.
	Fields []string `json:"fields"`

	// Values maps each field name to its resolved value.
	Values map[string]any `json:"values"`
}

// NewAnswer creates an empty Answer for the given field order.
func NewAnswer(fields []string) *Answer {
	return &Answer{
		Fields: append([]string(nil), fields...),
		Values: make(map[string]any, len(fields)),
	}
}

// Set records the value for a field. The field must be one of Fields.
func (a *Answer) Set(field string, value any) {
	a.Values[field] = value
}

// Complete reports whether every field has a value.
func (a *Answer) Complete() bool {
	for _, f := range a.Fields {
		if _, ok := a.Values[f]; !ok {
			return false
		}
	}
	return true
}

// MarshalOrdered serializes the answer as a JSON object whose keys appear
// in exactly the Fields order. encoding/json sorts map keys, so we build
// the object by hand.
func (a *Answer) MarshalOrdered() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range a.Fields {
		v, ok := a.Values[f]
		if !ok {
			return nil, fmt.Errorf("answer field %q has no value", f)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("answer field %q: %w", f, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SubmissionResult records the final outcome of posting an answer.
type SubmissionResult struct {
	// StatusCode is the final HTTP status code.
	StatusCode int `json:"status_code"`

	// ResponseBody is the final response body, verbatim.
	ResponseBody string `json:"response_body"`

	// Attempts is the number of POSTs performed, including retries.
	Attempts int `json:"attempts"`
}
