package envexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandWith(t *testing.T) {
	env := map[string]string{
		"PG_DSN": "postgres://localhost/approvals",
		"A":      "1",
		"B":      "2",
	}
	lookup := func(key string) string { return env[key] }

	testCases := []struct {
		description string
		input       string
		expected    string
	}{
		{description: "plain text", input: "store:\n  kind: memory", expected: "store:\n  kind: memory"},
		{description: "single expression", input: "dsn: ${env.PG_DSN}", expected: "dsn: postgres://localhost/approvals"},
		{description: "repeated expressions", input: "${env.A}-${env.B}-${env.A}", expected: "1-2-1"},
		{description: "unset variable", input: "path=${env.MISSING}/data", expected: "path=/data"},
		{description: "unterminated expression", input: "start ${env.A and more", expected: "start ${env.A and more"},
		{description: "empty key", input: "x${env.}y", expected: "xy"},
		{description: "invalid key keeps prefix", input: "${env.A-B} ${env.B}", expected: "${env.A-B} 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExpandWith(tc.input, lookup))
		})
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("APPROVALFLOW_TEST_DIR", "/var/approvals")
	assert.Equal(t, "basePath: /var/approvals/state", Expand("basePath: ${env.APPROVALFLOW_TEST_DIR}/state"))
}
