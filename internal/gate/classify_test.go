package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		action Action
		want   bool
	}{
		"edit":              {action: Action{Tool: "edit"}, want: true},
		"write":             {action: Action{Tool: "write"}, want: true},
		"multiedit":         {action: Action{Tool: "multiedit"}, want: true},
		"task":              {action: Action{Tool: "task"}, want: true},
		"mixed case":        {action: Action{Tool: "Edit"}, want: true},
		"read":              {action: Action{Tool: "read"}, want: false},
		"grep":              {action: Action{Tool: "grep"}, want: false},
		"bash safe":         {action: Action{Tool: "bash", Args: map[string]any{"command": "go test ./..."}}, want: false},
		"bash no command":   {action: Action{Tool: "bash"}, want: false},
		"bash non-string":   {action: Action{Tool: "bash", Args: map[string]any{"command": 42}}, want: false},
		"bash git push":     {action: Action{Tool: "bash", Args: map[string]any{"command": "git push origin main"}}, want: true},
		"bash git commit":   {action: Action{Tool: "Bash", Args: map[string]any{"command": "GIT COMMIT -m x"}}, want: true},
		"bash rm -rf":       {action: Action{Tool: "bash", Args: map[string]any{"command": "rm -rf build"}}, want: true},
		"bash mv":           {action: Action{Tool: "bash", Args: map[string]any{"command": "mv a b"}}, want: true},
		"bash overapprox":   {action: Action{Tool: "bash", Args: map[string]any{"command": "echo farm yard"}}, want: true},
		"bash git status":   {action: Action{Tool: "bash", Args: map[string]any{"command": "git status"}}, want: false},
		"bash rm no suffix": {action: Action{Tool: "bash", Args: map[string]any{"command": "rm"}}, want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.action))
		})
	}
}
