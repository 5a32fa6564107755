package tracker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Projections applied to bd JSON output. Results are rendered as raw
// strings, one per line, the way `jq -r` prints them.
const (
	readyQuery  = `.[0] | select(. != null) | "\(.id): \(.title) (p\(.priority))"`
	wipQuery    = `.[]? | "\(.id): \(.title)"`
	createQuery = `.id // empty`
)

// Project runs a jq filter over a JSON document and returns the raw output
// lines joined with newlines. Empty input produces empty output.
func Project(filter, input string) (string, error) {
	body := strings.TrimSpace(input)
	if body == "" {
		return "", nil
	}

	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("jq: parse error: %w", err)
	}

	query, err := gojq.Parse(filter)
	if err != nil {
		return "", fmt.Errorf("jq: filter parse error: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return "", fmt.Errorf("jq: compile error: %w", err)
	}

	var lines []string
	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return "", fmt.Errorf("jq: execution error: %w", err)
		}
		switch val := v.(type) {
		case string:
			lines = append(lines, val)
		case nil:
		default:
			out, _ := json.Marshal(val)
			lines = append(lines, string(out))
		}
	}
	return strings.Join(lines, "\n"), nil
}
