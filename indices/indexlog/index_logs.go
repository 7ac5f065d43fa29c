// Package indexlog tracks search index updates that have not reached the index yet.
package indexlog

import (
	"context"

	"smartmethods/idgen"
	"smartmethods/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

type IndexLog struct {
	SourceType string   `json:"sourceType" gorm:"index:for_search"`
	SourceId   types.ID `json:"sourceId" gorm:"index:for_search"`
	SourceDesc string   `json:"sourceDesc"`

	Deletion bool `json:"deletion"`
}

type IndexLogRecord struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	IndexLog

	Obsolete    bool            `json:"obsolete"`
	Timestamp   types.Timestamp `json:"timestamp" sql:"type:DATETIME(6)"`
	IndexedTime types.Timestamp `json:"indexedTime" sql:"type:DATETIME(6)"`
}

func (r *IndexLogRecord) TableName() string {
	return "index_logs"
}

var (
	indexLogIdWorker = idgen.NewWorker()

	CreateIndexLogFunc        = CreateIndexLog
	FinishIndexLogFunc        = FinishIndexLog
	IndexLogPersistCreateFunc = indexLogPersistCreate
	LoadPendingIndexLogFunc   = LoadPendingIndexLog
)

func CreateIndexLog(sourceType string, sourceId types.ID, sourceDesc string, deletion bool,
	timestamp types.Timestamp, db *gorm.DB) (*IndexLogRecord, error) {

	record := IndexLogRecord{
		ID: idgen.NextID(indexLogIdWorker),
		IndexLog: IndexLog{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,
			Deletion:   deletion,
		},
		Timestamp: timestamp,
	}

	if err := IndexLogPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}

func FinishIndexLog(id types.ID) error {
	changes := map[string]interface{}{"indexed_time": types.CurrentTimestamp(), "obsolete": false}
	return persistence.ActiveDataSourceManager.GormDB(context.Background()).
		Model(&IndexLogRecord{}).Where("id = ?", id).Updates(changes).Error
}

// LoadPendingIndexLog pages through logs neither indexed nor superseded, oldest first.
func LoadPendingIndexLog(page, size int) ([]IndexLogRecord, error) {
	indexLogs := []IndexLogRecord{}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	if err := db.Where("indexed_time = ? AND obsolete = ?", types.Timestamp{}, false).
		Order("timestamp ASC, id ASC").Offset(offset).Limit(size).Find(&indexLogs).Error; err != nil {
		return nil, err
	}
	return indexLogs, nil
}

// indexLogPersistCreate supersedes the pending logs of the same source.
func indexLogPersistCreate(record *IndexLogRecord, db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&IndexLogRecord{}).
			Where("source_type = ? AND source_id = ? AND indexed_time = ?", record.SourceType, record.SourceId, types.Timestamp{}).
			Update("obsolete", true).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}
