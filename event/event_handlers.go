package event

import (
	"smartmethods/common"
)

// EventHandler returns nil if it does not support the event.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, handler := range EventHandlers {
		common.Log.Debug("pre handle event ", record.Event)
		r := handler(record)

		if r == nil {
			continue
		}

		results = append(results, *r)

		if r.Success {
			common.Log.Info("post handle event. ", r)
		} else {
			common.Log.Error("post handler error. ", r)
		}
	}
	return results
}

// AllSucceeded reports whether no handler failed.
func AllSucceeded(results []EventHandleResult) bool {
	for _, r := range results {
		if !r.Success {
			return false
		}
	}
	return true
}
