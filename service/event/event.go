// Package event publishes process table changes to interested listeners.
package event

import (
	"github.com/viant/proctab/internal/clock"
	"time"
)

type Context struct {
	TableID   string `json:"tableID"`
	EventType string `json:"eventType"`
	Service   string `json:"service"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
