package challenge

import (
	"fmt"

	"go.starlark.net/starlark"
)

// toStarlarkValue converts a fixture value to a Starlark value.
func toStarlarkValue(v interface{}) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case string:
		return starlark.String(val), nil
	case []string:
		return listOf(val, func(s string) starlark.Value { return starlark.String(s) }), nil
	case []bool:
		return listOf(val, func(b bool) starlark.Value { return starlark.Bool(b) }), nil
	case []int:
		return listOf(val, func(n int) starlark.Value { return starlark.MakeInt(n) }), nil
	case []interface{}:
		items := make([]starlark.Value, 0, len(val))
		for i, item := range val {
			sv, err := toStarlarkValue(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, sv)
		}
		return starlark.NewList(items), nil
	}
	return nil, fmt.Errorf("unsupported fixture type: %T", v)
}

func listOf[T any](xs []T, conv func(T) starlark.Value) *starlark.List {
	items := make([]starlark.Value, len(xs))
	for i, x := range xs {
		items[i] = conv(x)
	}
	return starlark.NewList(items)
}

// fromStarlarkValue converts a value returned by a learner script. Tuples
// and lists both become []interface{} so either spelling of a pair passes.
func fromStarlarkValue(v starlark.Value) (interface{}, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer too large")
		}
		return i, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	case *starlark.List:
		return fromIndexable(val)
	case starlark.Tuple:
		return fromIndexable(val)
	default:
		return nil, fmt.Errorf("unsupported return type: %s", v.Type())
	}
}

func fromIndexable(seq starlark.Indexable) ([]interface{}, error) {
	out := make([]interface{}, seq.Len())
	for i := range out {
		item, err := fromStarlarkValue(seq.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

// predeclared converts a challenge's globals for starlark.ExecFile.
func predeclared(values map[string]interface{}) (starlark.StringDict, error) {
	dict := make(starlark.StringDict, len(values))
	for name, v := range values {
		sv, err := toStarlarkValue(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", name, err)
		}
		dict[name] = sv
	}
	return dict, nil
}

// repr renders a Go fixture the way Starlark would print it.
func repr(v interface{}) string {
	sv, err := toStarlarkValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return sv.String()
}
