package mcpclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseArgs turns command-line pairs into tool arguments. key=value sets a
// string; key:=json sets a raw JSON value such as a number or boolean.
func ParseArgs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" || key == ":" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value or key:=json", pair)
		}
		if typed, isJSON := strings.CutSuffix(key, ":"); isJSON {
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return nil, fmt.Errorf("invalid JSON for %s: %w", typed, err)
			}
			args[typed] = v
			continue
		}
		args[key] = raw
	}
	return args, nil
}
