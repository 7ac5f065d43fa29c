package study

import (
	"fmt"

	"smartmethods/bizerror"
	"smartmethods/domain"
	"smartmethods/event"
	"smartmethods/persistence"
	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	SoftDeleteStudyFunc = SoftDeleteStudy
	RestoreStudyFunc    = RestoreStudy
	PurgeStudyFunc      = PurgeStudy
	QueryTrashFunc      = QueryTrash
)

// SoftDeleteStudy moves a live study into the trash.
func SoftDeleteStudy(id types.ID, s *session.Session) error {
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		study, err := findLiveStudy(tx, id, s)
		if err != nil {
			return err
		}
		now := types.CurrentTimestamp()
		if err := tx.Model(&Study{}).Where("id = ?", id).Update("delete_time", now).Error; err != nil {
			return err
		}
		ev, err = createStudyEvent(study, event.EventCategoryDeleted,
			event.UpdatedProperties{{PropertyName: "DeleteTime", PropertyDesc: "delete time", NewValue: now.String()}},
			&s.Identity, now, tx)
		return err
	})
	if err != nil {
		return err
	}
	dispatchEvents(ev)
	return nil
}

func RestoreStudy(id types.ID, s *session.Session) (*Study, error) {
	var study *Study
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		var err error
		study, err = findTrashedStudy(tx, id, s)
		if err != nil {
			return err
		}
		deleteTime := study.DeleteTime
		now := types.CurrentTimestamp()
		study.DeleteTime = types.Timestamp{}
		study.UpdateTime = now
		if err := tx.Model(&Study{}).Where("id = ?", id).
			Updates(map[string]interface{}{"delete_time": types.Timestamp{}, "update_time": now}).Error; err != nil {
			return err
		}
		ev, err = createStudyEvent(study, event.EventCategoryRestored,
			event.UpdatedProperties{{PropertyName: "DeleteTime", PropertyDesc: "delete time", OldValue: deleteTime.String()}},
			&s.Identity, now, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	dispatchEvents(ev)
	return study, nil
}

// PurgeStudy removes a study for good, only studies in the trash can be purged.
func PurgeStudy(id types.ID, s *session.Session) error {
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		study, err := findTrashedStudy(tx, id, s)
		if err != nil {
			return err
		}
		if err := tx.Delete(Study{}, "id = ?", id).Error; err != nil {
			return err
		}
		ev, err = createStudyEvent(study, event.EventCategoryPurged, nil, &s.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if err != nil {
		return err
	}
	dispatchEvents(ev)
	return nil
}

// QueryTrash lists the trashed studies of the session user, most recently deleted first.
func QueryTrash(s *session.Session) ([]Study, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	studies := []Study{}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where("user_id = ? AND delete_time != ?", s.Identity.ID, types.Timestamp{}).
		Order("delete_time DESC").Order("id DESC").Find(&studies).Error; err != nil {
		return nil, err
	}
	return studies, nil
}

func findTrashedStudy(db *gorm.DB, id types.ID, s *session.Session) (*Study, error) {
	study, err := findStudy(db, id, s)
	if err != nil {
		return nil, err
	}
	if study.DeleteTime.IsZero() {
		return nil, fmt.Errorf("study %v is not in trash: %w", id, domain.ErrInvalidState)
	}
	return study, nil
}
