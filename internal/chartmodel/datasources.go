package chartmodel

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DataSources maps source names to value sequences, preserving insertion
// order (for decoded payloads: the order of the JSON object keys).
type DataSources struct {
	m *orderedmap.OrderedMap[string, []any]
}

// NewDataSources returns an empty catalog.
func NewDataSources() *DataSources {
	return &DataSources{m: orderedmap.New[string, []any]()}
}

// Set adds or replaces a source. Replacing keeps the original position.
func (d *DataSources) Set(name string, values []any) {
	d.m.Set(name, values)
}

// Get returns the values of a source.
func (d *DataSources) Get(name string) ([]any, bool) {
	if d == nil {
		return nil, false
	}
	return d.m.Get(name)
}

// Len returns the number of sources.
func (d *DataSources) Len() int {
	if d == nil {
		return 0
	}
	return d.m.Len()
}

// Keys returns the source names in order.
func (d *DataSources) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, d.m.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Clone deep-copies the catalog.
func (d *DataSources) Clone() *DataSources {
	out := NewDataSources()
	if d == nil {
		return out
	}
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		out.m.Set(pair.Key, cloneSlice(pair.Value))
	}
	return out
}

// MarshalJSON encodes the catalog as an object, keys in order.
func (d *DataSources) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return d.m.MarshalJSON()
}

// UnmarshalJSON decodes an object whose values are arrays. Any other value
// shape is an error.
func (d *DataSources) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("data sources must be an object: %w", err)
	}
	for name, raw := range fields {
		var values []any
		if err := json.Unmarshal(raw, &values); err != nil || values == nil {
			return fmt.Errorf("data source %q must be an array", name)
		}
	}

	m := orderedmap.New[string, []any]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	d.m = m
	return nil
}
