package hyperparam

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Clone deep-copies a hyperparameter mapping. Nested mappings and lists are
// copied; other values are copied by assignment.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Fingerprint returns a stable content hash of hp, independent of map
// iteration order.
func Fingerprint(hp map[string]any) (string, error) {
	data, err := json.Marshal(hp)
	if err != nil {
		return "", fmt.Errorf("encoding hyperparameters: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}
