package criteria

import (
	"github.com/viant/approvalflow/service/dao"
)

// FilterByStatus returns true when status satisfies the Status parameter;
// other parameters are ignored.
func FilterByStatus(status string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != dao.StatusParameter {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			return status == actual
		case []string:
			for _, s := range actual {
				if status == s {
					return true
				}
			}
			return false
		}
	}
	return true
}
