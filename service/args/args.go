package args

import (
	"strconv"
	"strings"
)

// Argument keys
const (
	KeyDecision       = "DECISION"
	KeyComments       = "COMMENTS"
	KeyThresholdHours = "THRESHOLD_HOURS"
)

// UnknownDecision is used when DECISION is not supplied
const UnknownDecision = "unknown"

// Decision represents approver decision arguments
type Decision struct {
	Decision string
	Comments string
}

// IsReject returns true for reject in any casing
func (d *Decision) IsReject() bool {
	return strings.EqualFold(d.Decision, "reject")
}

// IsApprove returns true for approve in any casing
func (d *Decision) IsApprove() bool {
	return strings.EqualFold(d.Decision, "approve")
}

// IsKnown returns true for approve or reject
func (d *Decision) IsKnown() bool {
	return d.IsApprove() || d.IsReject()
}

// ParseDecision parses DECISION:<value>,COMMENTS:<text>
func ParseDecision(input string) *Decision {
	values := Parse(input)
	return &Decision{
		Decision: values.Lookup(KeyDecision, UnknownDecision),
		Comments: values.Lookup(KeyComments, ""),
	}
}

// Escalation represents escalation check arguments
type Escalation struct {
	ThresholdHours int
	// Invalid holds a rejected THRESHOLD_HOURS value
	Invalid string
}

// ParseEscalation parses THRESHOLD_HOURS:<int>. A missing, malformed or
// negative threshold falls back to defaultHours.
func ParseEscalation(input string, defaultHours int) *Escalation {
	ret := &Escalation{ThresholdHours: defaultHours}
	raw, ok := Parse(input)[KeyThresholdHours]
	if !ok {
		return ret
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 0 {
		ret.Invalid = raw
		return ret
	}
	ret.ThresholdHours = hours
	return ret
}
