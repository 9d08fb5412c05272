package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    Values
	}{
		{
			description: "decision with comments",
			input:       "DECISION:approve,COMMENTS:looks good",
			expected:    Values{"DECISION": "approve", "COMMENTS": "looks good"},
		},
		{
			description: "empty input",
			input:       "",
			expected:    Values{},
		},
		{
			description: "values are trimmed and whitespace before keys skipped",
			input:       "DECISION: reject , COMMENTS:  missing alt text ",
			expected:    Values{"DECISION": "reject", "COMMENTS": "missing alt text"},
		},
		{
			description: "first occurrence wins",
			input:       "DECISION:reject,DECISION:approve",
			expected:    Values{"DECISION": "reject"},
		},
		{
			description: "segments without key are skipped",
			input:       "garbage,,THRESHOLD_HOURS:12,:orphan",
			expected:    Values{"THRESHOLD_HOURS": "12"},
		},
		{
			description: "empty value",
			input:       "COMMENTS:",
			expected:    Values{"COMMENTS": ""},
		},
		{
			description: "colon inside value",
			input:       "COMMENTS:see http://example.com",
			expected:    Values{"COMMENTS": "see http://example.com"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, Parse(tc.input))
		})
	}
}

func TestParseDecision(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    *Decision
		reject      bool
		known       bool
	}{
		{
			description: "approve",
			input:       "DECISION:approve,COMMENTS:looks good",
			expected:    &Decision{Decision: "approve", Comments: "looks good"},
			known:       true,
		},
		{
			description: "upper case reject",
			input:       "DECISION:REJECT,COMMENTS:fix title",
			expected:    &Decision{Decision: "REJECT", Comments: "fix title"},
			reject:      true,
			known:       true,
		},
		{
			description: "defaults",
			input:       "",
			expected:    &Decision{Decision: UnknownDecision},
		},
		{
			description: "unrecognized decision",
			input:       "DECISION:maybe",
			expected:    &Decision{Decision: "maybe"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual := ParseDecision(tc.input)
			assert.EqualValues(t, tc.expected, actual)
			assert.Equal(t, tc.reject, actual.IsReject())
			assert.Equal(t, tc.known, actual.IsKnown())
		})
	}
}

func TestParseEscalation(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    *Escalation
	}{
		{description: "default", input: "", expected: &Escalation{ThresholdHours: 48}},
		{description: "override", input: "THRESHOLD_HOURS:24", expected: &Escalation{ThresholdHours: 24}},
		{description: "zero", input: "THRESHOLD_HOURS:0", expected: &Escalation{ThresholdHours: 0}},
		{description: "malformed", input: "THRESHOLD_HOURS:abc", expected: &Escalation{ThresholdHours: 48, Invalid: "abc"}},
		{description: "negative", input: "THRESHOLD_HOURS:-5", expected: &Escalation{ThresholdHours: 48, Invalid: "-5"}},
		{description: "other keys ignored", input: "DECISION:approve", expected: &Escalation{ThresholdHours: 48}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, ParseEscalation(tc.input, 48))
		})
	}
}
