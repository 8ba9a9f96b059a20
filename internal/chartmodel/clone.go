package chartmodel

// CloneTraces deep-copies a trace list.
func CloneTraces(in []Trace) []Trace {
	if in == nil {
		return []Trace{}
	}
	out := make([]Trace, len(in))
	for i, t := range in {
		out[i] = Trace(cloneMap(t))
	}
	return out
}

// CloneLayout deep-copies a layout.
func CloneLayout(in Layout) Layout {
	if in == nil {
		return Layout{}
	}
	return Layout(cloneMap(in))
}

// CloneFrames deep-copies a frame list.
func CloneFrames(in []Frame) []Frame {
	if in == nil {
		return []Frame{}
	}
	out := make([]Frame, len(in))
	for i, f := range in {
		out[i] = Frame(cloneMap(f))
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneSlice(in []any) []any {
	if in == nil {
		return nil
	}
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Trace:
		return Trace(cloneMap(t))
	case Layout:
		return Layout(cloneMap(t))
	case Frame:
		return Frame(cloneMap(t))
	case []any:
		return cloneSlice(t)
	case []float64:
		return append([]float64(nil), t...)
	default:
		return v
	}
}
