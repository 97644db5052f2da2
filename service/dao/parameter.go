package dao

import "fmt"

// Parameter is a List filter; see package criteria for the supported names.
type Parameter struct {
	Name  string
	Value interface{}
}

func (p *Parameter) String() string {
	return fmt.Sprintf("%s=%v", p.Name, p.Value)
}

// NewParameter creates a filter. Value may be a scalar or a slice of
// accepted values.
func NewParameter(name string, value interface{}) *Parameter {
	return &Parameter{Name: name, Value: value}
}
