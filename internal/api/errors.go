package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrMalformedResult reports a success response that breaks the result
// contract (a required numeric field is missing). It is a programming error
// on one side of the wire and is never coerced into zeros.
const ErrMalformedResult = constError("malformed calculation result")

// ErrorKind names one variant of the calculation error model.
type ErrorKind int

const (
	// KindUnknown is any error that did not come from this package.
	KindUnknown ErrorKind = iota
	// KindValidation is a list of field-level validation failures.
	KindValidation
	// KindDetail is a single server-reported message.
	KindDetail
	// KindUnclassified is any other JSON error body.
	KindUnclassified
	// KindConnection is a transport failure or unreadable response.
	KindConnection
	// KindReferenceData is a failed regions or facility-types load.
	KindReferenceData
)

// String returns the variant name.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindDetail:
		return "DetailError"
	case KindUnclassified:
		return "UnclassifiedError"
	case KindConnection:
		return "ConnectionError"
	case KindReferenceData:
		return "ReferenceDataLoadError"
	case KindUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// FieldError is one entry of a validation error list.
type FieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// Path joins the location segments with dots, e.g. "body.size".
func (f FieldError) Path() string {
	return strings.Join(f.Loc, ".")
}

// ValidationError carries ordered field-level failures.
type ValidationError struct {
	Status int
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path() + ": " + f.Msg
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Bullets renders one "• path: msg" line per field, in order.
func (e *ValidationError) Bullets() string {
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = "• " + f.Path() + ": " + f.Msg
	}
	return strings.Join(lines, "\n")
}

// DetailError is a server-reported human-readable message.
type DetailError struct {
	Status int
	Detail string
}

func (e *DetailError) Error() string { return e.Detail }

// UnclassifiedError is a JSON error body of no recognized shape.
type UnclassifiedError struct {
	Status int
	Body   json.RawMessage
}

func (e *UnclassifiedError) Error() string {
	return fmt.Sprintf("unexpected error response (status %d)", e.Status)
}

// Pretty returns the body indented with two spaces.
func (e *UnclassifiedError) Pretty() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, e.Body, "", "  "); err != nil {
		return string(e.Body)
	}
	return buf.String()
}

// ConnectionError is a transport failure: the service was unreachable or its
// response could not be read as JSON.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: could not reach calculation service: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ReferenceDataLoadError reports a failed enumeration load for one endpoint.
type ReferenceDataLoadError struct {
	Endpoint string
	Err      error
}

func (e *ReferenceDataLoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Endpoint, e.Err)
}

func (e *ReferenceDataLoadError) Unwrap() error { return e.Err }

// KindOf returns the variant of err, looking through wrapping.
func KindOf(err error) ErrorKind {
	var (
		validationErr   *ValidationError
		detailErr       *DetailError
		unclassifiedErr *UnclassifiedError
		connErr         *ConnectionError
		refErr          *ReferenceDataLoadError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &refErr):
		return KindReferenceData
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &detailErr):
		return KindDetail
	case errors.As(err, &unclassifiedErr):
		return KindUnclassified
	case errors.As(err, &connErr):
		return KindConnection
	default:
		return KindUnknown
	}
}

// UserMessage renders err the way it is shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindValidation:
		var e *ValidationError
		errors.As(err, &e)
		return "Validation Errors:\n" + e.Bullets()
	case KindDetail:
		var e *DetailError
		errors.As(err, &e)
		return "Error: " + e.Detail
	case KindUnclassified:
		var e *UnclassifiedError
		errors.As(err, &e)
		return "Unexpected error:\n" + e.Pretty()
	case KindConnection:
		return "Could not connect to backend."
	case KindReferenceData:
		var e *ReferenceDataLoadError
		errors.As(err, &e)
		return "Failed to load " + strings.TrimPrefix(e.Endpoint, "/")
	case KindUnknown:
		return err.Error()
	default:
		return err.Error()
	}
}

// ClassifyErrorBody parses a non-success response body into exactly one
// error variant. A body that is not JSON is a transport failure.
func ClassifyErrorBody(op string, status int, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return &ConnectionError{Op: op, Err: fmt.Errorf("status %d with non-JSON body", status)}
	}

	switch trimmed[0] {
	case '[':
		if fields, ok := parseFieldErrors(trimmed); ok {
			return &ValidationError{Status: status, Fields: fields}
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			if raw, ok := obj["detail"]; ok {
				var detail string
				if json.Unmarshal(raw, &detail) == nil && detail != "" {
					return &DetailError{Status: status, Detail: detail}
				}
				if fields, ok := parseFieldErrors(raw); ok {
					return &ValidationError{Status: status, Fields: fields}
				}
			}
		}
	}

	return &UnclassifiedError{Status: status, Body: json.RawMessage(trimmed)}
}

type fieldErrorWire struct {
	Loc []json.RawMessage `json:"loc"`
	Msg *string           `json:"msg"`
}

// parseFieldErrors accepts a non-empty array whose every entry has a loc
// array and a msg string. Loc segments may be strings or numbers.
func parseFieldErrors(raw []byte) ([]FieldError, bool) {
	var wire []fieldErrorWire
	if err := json.Unmarshal(raw, &wire); err != nil || len(wire) == 0 {
		return nil, false
	}

	fields := make([]FieldError, 0, len(wire))
	for _, w := range wire {
		if w.Msg == nil || w.Loc == nil {
			return nil, false
		}
		loc := make([]string, 0, len(w.Loc))
		for _, seg := range w.Loc {
			var s string
			if json.Unmarshal(seg, &s) == nil {
				loc = append(loc, s)
				continue
			}
			loc = append(loc, string(bytes.TrimSpace(seg)))
		}
		fields = append(fields, FieldError{Loc: loc, Msg: *w.Msg})
	}
	return fields, true
}
