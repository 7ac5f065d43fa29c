package event

import (
	"smartmethods/idgen"
	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	EventPersistCreateFunc = eventPersistCreate

	idWorker = idgen.NewWorker()
)

func CreateEvent(sourceType string, sourceId types.ID, sourceDesc string, category EventCategory,
	updatedProperties UpdatedProperties, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*EventRecord, error) {

	if updatedProperties == nil {
		updatedProperties = UpdatedProperties{}
	}
	record := EventRecord{
		ID: idgen.NextID(idWorker),
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,

			CreatorId:   identity.ID,
			CreatorName: identity.Name,
		},
		Synced:    false,
		Timestamp: timestamp,
	}
	if err := EventPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}

func eventPersistCreate(record *EventRecord, db *gorm.DB) error {
	return db.Create(record).Error
}

// MarkSynced is called once every handler has seen the event.
func MarkSynced(id types.ID, db *gorm.DB) error {
	return db.Model(&EventRecord{}).Where(&EventRecord{ID: id}).Update("synced", true).Error
}

func QueryEvents(sourceType string, sourceId types.ID, db *gorm.DB) ([]EventRecord, error) {
	records := []EventRecord{}
	if err := db.Where("source_type = ? AND source_id = ?", sourceType, sourceId).
		Order("timestamp ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
