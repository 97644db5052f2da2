package criteria

import (
	"github.com/spf13/cast"
	"github.com/viant/proctab/service/dao"
)

// Parameter names understood by snapshot DAOs.
const (
	Capacity = "Capacity"
	HasInit  = "HasInit"
)

// FilterSnapshot reports whether a snapshot with the given capacity and init
// state passes every parameter. Unknown parameters are ignored; a parameter
// whose value cannot be converted filters the snapshot out.
func FilterSnapshot(capacity int, hasInit bool, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		switch parameter.Name {
		case Capacity:
			if !matchCapacity(capacity, parameter.Value) {
				return false
			}
		case HasInit:
			expected, err := cast.ToBoolE(parameter.Value)
			if err != nil || expected != hasInit {
				return false
			}
		}
	}
	return true
}

func matchCapacity(capacity int, value interface{}) bool {
	switch actual := value.(type) {
	case []int:
		for _, candidate := range actual {
			if candidate == capacity {
				return true
			}
		}
		return false
	default:
		expected, err := cast.ToIntE(actual)
		return err == nil && expected == capacity
	}
}
