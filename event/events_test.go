package event_test

import (
	"context"
	"errors"
	"smartmethods/event"
	"smartmethods/session"
	"smartmethods/testinfra"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestCreateEvent(t *testing.T) {
	RegisterTestingT(t)
	defer func(f func(*event.EventRecord, *gorm.DB) error) { event.EventPersistCreateFunc = f }(event.EventPersistCreateFunc)

	props := event.UpdatedProperties{{PropertyName: "ProcessName", PropertyDesc: "process name", OldValue: "Old", NewValue: "New"}}
	ts := types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local)

	t.Run("should return error when failed to persist event", func(t *testing.T) {
		testErr := errors.New("test error")
		event.EventPersistCreateFunc = func(record *event.EventRecord, tx *gorm.DB) error {
			return testErr
		}
		ret, err := event.CreateEvent("STUDY", 1234, "study1234", event.EventCategoryCreated, props,
			&session.Identity{ID: 333, Name: "user333"}, ts, &gorm.DB{Value: 10000})
		Expect(ret).To(BeNil())
		Expect(err).To(Equal(testErr))
	})

	t.Run("should be able to create events", func(t *testing.T) {
		var ev event.EventRecord
		var db *gorm.DB
		event.EventPersistCreateFunc = func(record *event.EventRecord, tx *gorm.DB) error {
			ev = *record
			db = tx
			return nil
		}

		tx := &gorm.DB{Value: 10000}
		ret, err := event.CreateEvent("STUDY", 1234, "study1234", event.EventCategoryCreated, nil,
			&session.Identity{ID: 333, Name: "user333"}, ts, tx)
		Expect(err).To(BeNil())
		Expect(ret.ID).ToNot(BeZero())
		Expect(*ret).To(Equal(event.EventRecord{
			ID: ret.ID,
			Event: event.Event{
				SourceType: "STUDY", SourceId: 1234, SourceDesc: "study1234",
				EventCategory:     event.EventCategoryCreated,
				UpdatedProperties: event.UpdatedProperties{},
				CreatorId:         333, CreatorName: "user333",
			},
			Timestamp: ts,
		}))
		Expect(ev).To(Equal(*ret))
		Expect(db).To(Equal(tx))
	})
}

func TestEventPersistence(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should persist, query and mark events synced", func(t *testing.T) {
		testDatabase := testinfra.StartTestDatabase("event")
		defer testinfra.StopTestDatabase(testDatabase)
		db := testDatabase.DS.GormDB(context.Background())
		assert.Nil(t, db.AutoMigrate(&event.EventRecord{}).Error)

		identity := &session.Identity{ID: 333, Name: "user333"}
		first, err := event.CreateEvent("STUDY", 1234, "study1234", event.EventCategoryCreated, nil, identity,
			types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local), db)
		assert.Nil(t, err)
		_, err = event.CreateEvent("STUDY", 1234, "study1234", event.EventCategoryPropertyUpdated,
			event.UpdatedProperties{{PropertyName: "Status", OldValue: "draft", NewValue: "in_progress"}}, identity,
			types.TimestampOfDate(2021, 1, 1, 12, 12, 13, 0, time.Local), db)
		assert.Nil(t, err)
		_, err = event.CreateEvent("STUDY", 999, "other", event.EventCategoryCreated, nil, identity, types.CurrentTimestamp(), db)
		assert.Nil(t, err)

		assert.Nil(t, event.MarkSynced(first.ID, db))

		records, err := event.QueryEvents("STUDY", 1234, db)
		assert.Nil(t, err)
		Expect(len(records)).To(Equal(2))
		Expect(records[0].ID).To(Equal(first.ID))
		Expect(records[0].Synced).To(BeTrue())
		Expect(records[1].Synced).To(BeFalse())
		Expect(records[1].EventCategory).To(Equal(event.EventCategory(event.EventCategoryPropertyUpdated)))
		Expect(records[1].UpdatedProperties).To(Equal(event.UpdatedProperties{{PropertyName: "Status", OldValue: "draft", NewValue: "in_progress"}}))
	})
}
