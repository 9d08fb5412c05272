package dao

// Parameter represents a List filter
type Parameter struct {
	Name  string
	Value interface{}
}

// StatusParameter is the name of the status filter
const StatusParameter = "Status"

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
