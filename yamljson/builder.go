package yamljson

import "fmt"

// Build assembles the reader's event stream into a tree of
// map[string]any, []any and string values. An empty document yields nil.
func Build(r *Reader) (any, error) {
	e, err := r.Next()
	if err != nil {
		return nil, err
	}
	if e.Kind == End {
		return nil, nil
	}
	v, err := buildValue(r, e)
	if err != nil {
		return nil, err
	}
	// Drain to the terminal event so Diagnostics sees the whole input.
	for {
		e, err := r.Next()
		if err != nil {
			return nil, err
		}
		if e.Kind == End {
			return v, nil
		}
	}
}

func buildValue(r *Reader, e Event) (any, error) {
	switch e.Kind {
	case String:
		return e.Value, nil
	case StartObject:
		return buildObject(r)
	case StartArray:
		return buildArray(r)
	}
	return nil, fmt.Errorf("unexpected %v event", e.Kind)
}

func buildObject(r *Reader) (any, error) {
	m := make(map[string]any)
	for {
		e, err := r.Next()
		if err != nil {
			return nil, err
		}
		if e.Kind == EndObject {
			return m, nil
		}
		if e.Kind != PropertyName {
			return nil, fmt.Errorf("unexpected %v event inside mapping", e.Kind)
		}
		key := e.Value
		ve, err := r.Next()
		if err != nil {
			return nil, err
		}
		v, err := buildValue(r, ve)
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
}

func buildArray(r *Reader) (any, error) {
	arr := []any{}
	for {
		e, err := r.Next()
		if err != nil {
			return nil, err
		}
		if e.Kind == EndArray {
			return arr, nil
		}
		v, err := buildValue(r, e)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}
