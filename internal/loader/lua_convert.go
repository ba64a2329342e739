package loader

import (
	"fmt"
	"math"

	"github.com/Shopify/go-lua"
)

// pushValue pushes a hyperparameter value onto the Lua stack.
func pushValue(st *lua.State, v any) error {
	switch t := v.(type) {
	case nil:
		st.PushNil()
	case bool:
		st.PushBoolean(t)
	case string:
		st.PushString(t)
	case int:
		st.PushInteger(t)
	case int64:
		st.PushNumber(float64(t))
	case float32:
		st.PushNumber(float64(t))
	case float64:
		st.PushNumber(t)
	case []any:
		st.CreateTable(len(t), 0)
		for i, elem := range t {
			if err := pushValue(st, elem); err != nil {
				return err
			}
			st.RawSetInt(-2, i+1)
		}
	case map[string]any:
		st.CreateTable(0, len(t))
		for k, elem := range t {
			if err := pushValue(st, elem); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			st.SetField(-2, k)
		}
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

// toGo converts the value at index into a Go value. Tables with keys 1..n
// become []any, other tables map[string]any; whole numbers become int.
func toGo(st *lua.State, index int) any {
	switch st.TypeOf(index) {
	case lua.TypeString:
		s, _ := st.ToString(index)
		return s
	case lua.TypeNumber:
		n, _ := st.ToNumber(index)
		return normalizeNumber(n)
	case lua.TypeBoolean:
		return st.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(st, index)
	default:
		return nil
	}
}

func tableToGo(st *lua.State, index int) any {
	index = st.AbsIndex(index)

	isArray := true
	maxIndex, count := 0, 0
	st.PushNil()
	for st.Next(index) {
		if isArray {
			if st.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := st.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		st.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		out := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			st.RawGetInt(index, i)
			out = append(out, toGo(st, -1))
			st.Pop(1)
		}
		return out
	}

	out := map[string]any{}
	st.PushNil()
	for st.Next(index) {
		if st.TypeOf(-2) == lua.TypeString {
			key, _ := st.ToString(-2)
			out[key] = toGo(st, -1)
		}
		st.Pop(1)
	}
	return out
}

func normalizeNumber(n float64) any {
	if math.Mod(n, 1) == 0 && math.Abs(n) < 1<<53 {
		return int(n)
	}
	return n
}

func typeName(t lua.Type) string {
	switch t {
	case lua.TypeNil:
		return "nil"
	case lua.TypeBoolean:
		return "boolean"
	case lua.TypeNumber:
		return "number"
	case lua.TypeString:
		return "string"
	case lua.TypeTable:
		return "table"
	case lua.TypeFunction:
		return "function"
	case lua.TypeUserData:
		return "userdata"
	default:
		return "unknown"
	}
}
