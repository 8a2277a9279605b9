package data

// Merge deep-merges updates onto existing and returns a new map. Arrays are
// replaced wholesale, objects merge recursively, and null or scalar values
// overwrite. Neither input is modified.
func Merge(existing, updates map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(updates))
	for k, v := range existing {
		out[k] = cloneValue(v)
	}
	for k, v := range updates {
		switch t := v.(type) {
		case nil:
			out[k] = nil
		case []any:
			out[k] = cloneSlice(t)
		case map[string]any:
			out[k] = Merge(Map(out[k]), t)
		default:
			out[k] = t
		}
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Document:
		return cloneMap(t)
	case []any:
		return cloneSlice(t)
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}
