package instance

import "strings"

// History returns the audit trail text or empty string
func (c *Context) History() string {
	return c.StringOr(KeyApprovalHistory, "")
}

// AppendHistory appends a single audit line. The first line is stored
// without a leading separator.
func (c *Context) AppendHistory(line string) {
	history := c.History()
	if history != "" {
		history += "\n"
	}
	c.Set(KeyApprovalHistory, history+line)
}

// HistoryLines returns the audit trail split into lines
func (c *Context) HistoryLines() []string {
	history := c.History()
	if history == "" {
		return nil
	}
	return strings.Split(history, "\n")
}
