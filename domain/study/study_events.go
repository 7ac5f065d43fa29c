package study

import (
	"smartmethods/event"
	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func createStudyEvent(study *Study, category event.EventCategory, props event.UpdatedProperties,
	identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent(SourceType, study.ID, study.ProcessName, category, props, identity, timestamp, db)
}

func dispatchEvents(events ...*event.EventRecord) {
	if event.InvokeHandlersFunc == nil {
		return
	}
	for _, ev := range events {
		if ev != nil {
			event.InvokeHandlersFunc(ev)
		}
	}
}

// StatusChangedTo returns the new status carried by a created or state transited study event.
func StatusChangedTo(ev *event.EventRecord) (string, bool) {
	if ev == nil || ev.SourceType != SourceType {
		return "", false
	}
	if ev.EventCategory != event.EventCategoryCreated && ev.EventCategory != event.EventCategoryStateTransited {
		return "", false
	}
	for _, p := range ev.UpdatedProperties {
		if p.PropertyName == "Status" {
			return p.NewValue, true
		}
	}
	return "", false
}
