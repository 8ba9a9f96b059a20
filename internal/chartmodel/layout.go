package chartmodel

// Axis keys the widget reads for range windowing.
const (
	XAxisKey = "xaxis"
	YAxisKey = "yaxis"
)

// CleanLayout returns a copy of layout without the range of any axis that is
// autoranged, so a render pass does not report a range the chart will
// recompute anyway.
func CleanLayout(layout Layout) Layout {
	out := CloneLayout(layout)
	for _, key := range []string{XAxisKey, YAxisKey} {
		axis, ok := out[key].(map[string]any)
		if !ok {
			continue
		}
		if auto, _ := axis["autorange"].(bool); auto {
			delete(axis, "range")
		}
	}
	return out
}

// Title returns the layout title, accepting both the string and the
// {"text": ...} forms.
func (l Layout) Title() string {
	switch t := l["title"].(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["text"].(string); ok {
			return s
		}
	}
	return ""
}

// AxisRange returns the [min, max] range of an axis, if set.
func (l Layout) AxisRange(key string) (float64, float64, bool) {
	axis, ok := l[key].(map[string]any)
	if !ok {
		return 0, 0, false
	}
	r, ok := axis["range"].([]any)
	if !ok || len(r) != 2 {
		return 0, 0, false
	}
	lo, ok1 := ToFloat(r[0])
	hi, ok2 := ToFloat(r[1])
	if !ok1 || !ok2 || hi <= lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// SetAxisRange sets an explicit range and turns autorange off.
func (l Layout) SetAxisRange(key string, lo, hi float64) {
	axis, _ := l[key].(map[string]any)
	if axis == nil {
		axis = map[string]any{}
	}
	axis["range"] = []any{lo, hi}
	axis["autorange"] = false
	l[key] = axis
}

// ResetAxisRange drops an explicit range and turns autorange on.
func (l Layout) ResetAxisRange(key string) {
	axis, _ := l[key].(map[string]any)
	if axis == nil {
		axis = map[string]any{}
	}
	delete(axis, "range")
	axis["autorange"] = true
	l[key] = axis
}

// Name returns the trace name or a fallback.
func (t Trace) Name(fallback string) string {
	if s, ok := t["name"].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Values returns the numeric values stored under key (e.g. "x" or "y").
// Non-numeric entries become 0.
func (t Trace) Values(key string) []float64 {
	raw, ok := t[key].([]any)
	if !ok {
		return nil
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i], _ = ToFloat(v)
	}
	return out
}

// ToFloat converts a decoded JSON number to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
