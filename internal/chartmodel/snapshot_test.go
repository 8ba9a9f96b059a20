package chartmodel

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot_Valid(t *testing.T) {
	payload := `{"data":[{"x":[1,2]}],"layout":{"title":"A"},"frames":[],"dataSources":{"s1":[1,2,3]}}`

	s, err := DecodeSnapshot(payload)
	require.NoError(t, err)

	assert.Equal(t, []Trace{{"x": []any{1.0, 2.0}}}, s.Data)
	assert.Equal(t, Layout{"title": "A"}, s.Layout)
	assert.Equal(t, []Frame{}, s.Frames)
	values, ok := s.DataSources.Get("s1")
	require.True(t, ok)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, values)
}

func TestDecodeSnapshot_Defaults(t *testing.T) {
	s, err := DecodeSnapshot(`{"data":[],"layout":{},"_version_":1}`)
	require.NoError(t, err)

	assert.Empty(t, s.Data)
	assert.NotNil(t, s.Frames)
	assert.Empty(t, s.Frames)
	require.NotNil(t, s.DataSources)
	assert.Equal(t, 0, s.DataSources.Len())
}

func TestDecodeSnapshot_PreservesSourceOrder(t *testing.T) {
	s, err := DecodeSnapshot(`{"data":[],"layout":{},"dataSources":{"zeta":[1],"alpha":[2],"mid":[3]}}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, s.DataSources.Keys())
	assert.Equal(t, []DataSourceOption{
		{Value: "zeta", Label: "zeta"},
		{Value: "alpha", Label: "alpha"},
		{Value: "mid", Label: "mid"},
	}, Options(s.DataSources))
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{"not json", `{"data":`, ""},
		{"null payload", `null`, "payload is null"},
		{"array payload", `[]`, ""},
		{"unknown field", `{"data":[],"layout":{},"extra":1}`, "unknown field"},
		{"missing data", `{"layout":{}}`, `"data"`},
		{"null layout", `{"data":[],"layout":null}`, `"layout"`},
		{"data not array", `{"data":{},"layout":{}}`, `"data"`},
		{"trace not object", `{"data":[1],"layout":{}}`, `"data"`},
		{"null trace", `{"data":[null],"layout":{}}`, `"data[0]"`},
		{"layout not object", `{"data":[],"layout":"A"}`, `"layout"`},
		{"frames not array", `{"data":[],"layout":{},"frames":{}}`, `"frames"`},
		{"source not array", `{"data":[],"layout":{},"dataSources":{"s1":5}}`, `"dataSources"`},
		{"sources not object", `{"data":[],"layout":{},"dataSources":[1]}`, `"dataSources"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(tt.payload)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSnapshot))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSnapshotEncodeRoundTrip(t *testing.T) {
	payload := `{"data":[{"type":"scatter","y":[3,1]}],"layout":{"title":"T"},"frames":[],"dataSources":{"b":[1],"a":[2]}}`
	s, err := DecodeSnapshot(payload)
	require.NoError(t, err)

	encoded, err := s.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, payload, encoded)

	again, err := DecodeSnapshot(encoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, again.DataSources.Keys())
}

func TestUIModel_ReplaceWithAndEdit(t *testing.T) {
	m := NewUIModel()
	assert.False(t, m.Ready)
	assert.Empty(t, m.DataSourceOptions)

	s, err := DecodeSnapshot(`{"data":[{"x":[1]}],"layout":{"title":"A"},"dataSources":{"s1":[1],"s2":[2]}}`)
	require.NoError(t, err)
	m.ReplaceWith(s)

	assert.True(t, m.Ready)
	assert.Equal(t, []DataSourceOption{{Value: "s1", Label: "s1"}, {Value: "s2", Label: "s2"}}, m.DataSourceOptions)

	m.ApplyEdit([]Trace{{"x": []any{9.0}}}, Layout{"title": "B"}, []Frame{{"name": "f"}})
	assert.Equal(t, Layout{"title": "B"}, m.Layout)
	assert.Equal(t, []string{"s1", "s2"}, m.DataSources.Keys(), "edits never touch data sources")
	assert.Len(t, m.DataSourceOptions, 2)
	assert.True(t, m.Ready)
}

func TestUIModel_CloneIsDeep(t *testing.T) {
	m := NewUIModel()
	s, err := DecodeSnapshot(`{"data":[{"x":[1,2]}],"layout":{"xaxis":{"range":[0,1]}},"dataSources":{"s":[1]}}`)
	require.NoError(t, err)
	m.ReplaceWith(s)

	c := m.Clone()
	c.Data[0]["x"].([]any)[0] = 42.0
	c.Layout["xaxis"].(map[string]any)["range"] = []any{5.0, 6.0}
	c.DataSources.Set("t", []any{})

	assert.Equal(t, 1.0, m.Data[0]["x"].([]any)[0])
	lo, hi, ok := m.Layout.AxisRange(XAxisKey)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1}, []float64{lo, hi})
	assert.Equal(t, 1, m.DataSources.Len())
}

func TestCleanLayout(t *testing.T) {
	layout := Layout{
		"xaxis": map[string]any{"autorange": true, "range": []any{0.0, 1.0}},
		"yaxis": map[string]any{"autorange": false, "range": []any{2.0, 3.0}},
	}

	cleaned := CleanLayout(layout)

	_, hasX := cleaned["xaxis"].(map[string]any)["range"]
	_, hasY := cleaned["yaxis"].(map[string]any)["range"]
	assert.False(t, hasX)
	assert.True(t, hasY)
	_, stillX := layout["xaxis"].(map[string]any)["range"]
	assert.True(t, stillX, "input layout must not be modified")
}

func TestLayoutHelpers(t *testing.T) {
	l := Layout{"title": map[string]any{"text": "Nested"}}
	assert.Equal(t, "Nested", l.Title())

	_, _, ok := l.AxisRange(XAxisKey)
	assert.False(t, ok)

	l.SetAxisRange(XAxisKey, 1, 4)
	lo, hi, ok := l.AxisRange(XAxisKey)
	require.True(t, ok)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 4.0, hi)

	l.ResetAxisRange(XAxisKey)
	_, _, ok = l.AxisRange(XAxisKey)
	assert.False(t, ok)
	assert.Equal(t, true, l["xaxis"].(map[string]any)["autorange"])
}

func TestDataSourceOptionJSON(t *testing.T) {
	b, err := json.Marshal(DataSourceOption{Value: "s1", Label: "s1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"s1","label":"s1"}`, string(b))
}
