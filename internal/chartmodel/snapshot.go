package chartmodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrMalformedSnapshot is returned for host payloads that do not match the
// snapshot schema. The UI model must not be touched when it is returned.
var ErrMalformedSnapshot = errors.New("malformed chart state snapshot")

// Snapshot is a full chart state pushed by the host.
type Snapshot struct {
	Data        []Trace      `json:"data"`
	Layout      Layout       `json:"layout"`
	Frames      []Frame      `json:"frames"`
	DataSources *DataSources `json:"dataSources"`
}

const versionKey = "_version_"

var (
	requiredFields = []string{"data", "layout"}
	knownFields    = map[string]bool{
		"data":        true,
		"layout":      true,
		"frames":      true,
		"dataSources": true,
		versionKey:    true,
	}
)

// DecodeSnapshot parses a serialized host snapshot. data and layout are
// required; frames and dataSources default to empty. Unknown top-level keys
// are rejected.
func DecodeSnapshot(payload string) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if fields == nil {
		return Snapshot{}, fmt.Errorf("%w: payload is null", ErrMalformedSnapshot)
	}

	var unknown []string
	for name := range fields {
		if !knownFields[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Snapshot{}, fmt.Errorf("%w: unknown field(s) %v", ErrMalformedSnapshot, unknown)
	}
	for _, name := range requiredFields {
		if raw, ok := fields[name]; !ok || isNull(raw) {
			return Snapshot{}, fmt.Errorf("%w: missing required field %q", ErrMalformedSnapshot, name)
		}
	}

	s := Snapshot{Frames: []Frame{}, DataSources: NewDataSources()}

	if err := json.Unmarshal(fields["data"], &s.Data); err != nil {
		return Snapshot{}, fieldError("data", "an array of objects", err)
	}
	for i, t := range s.Data {
		if t == nil {
			return Snapshot{}, fieldError(fmt.Sprintf("data[%d]", i), "an object", nil)
		}
	}

	if err := json.Unmarshal(fields["layout"], &s.Layout); err != nil {
		return Snapshot{}, fieldError("layout", "an object", err)
	}

	if raw, ok := fields["frames"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &s.Frames); err != nil {
			return Snapshot{}, fieldError("frames", "an array of objects", err)
		}
		for i, f := range s.Frames {
			if f == nil {
				return Snapshot{}, fieldError(fmt.Sprintf("frames[%d]", i), "an object", nil)
			}
		}
	}

	if raw, ok := fields["dataSources"]; ok && !isNull(raw) {
		if err := s.DataSources.UnmarshalJSON(raw); err != nil {
			return Snapshot{}, fieldError("dataSources", "an object of arrays", err)
		}
	}

	return s, nil
}

// Encode serializes the snapshot in the same shape DecodeSnapshot accepts.
func (s Snapshot) Encode() (string, error) {
	out := struct {
		Data        []Trace      `json:"data"`
		Layout      Layout       `json:"layout"`
		Frames      []Frame      `json:"frames"`
		DataSources *DataSources `json:"dataSources"`
	}{
		Data:        nonNilTraces(s.Data),
		Layout:      s.Layout,
		Frames:      nonNilFrames(s.Frames),
		DataSources: s.DataSources,
	}
	if out.Layout == nil {
		out.Layout = Layout{}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fieldError(field, want string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: field %q must be %s: %v", ErrMalformedSnapshot, field, want, cause)
	}
	return fmt.Errorf("%w: field %q must be %s", ErrMalformedSnapshot, field, want)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func nonNilTraces(t []Trace) []Trace {
	if t == nil {
		return []Trace{}
	}
	return t
}

func nonNilFrames(f []Frame) []Frame {
	if f == nil {
		return []Frame{}
	}
	return f
}
