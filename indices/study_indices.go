package indices

import (
	"fmt"

	"smartmethods/client/es"
	"smartmethods/domain/study"
	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	StudyIndexName = "studies"

	// StudyIndexBody keeps identifiers and flags exact for the term filters of search.
	StudyIndexBody = es.H{
		"mappings": es.H{
			"properties": es.H{
				"id":           es.H{"type": "keyword"},
				"userId":       es.H{"type": "keyword"},
				"processName":  es.H{"type": "text"},
				"description":  es.H{"type": "text"},
				"status":       es.H{"type": "keyword"},
				"cyclesCount":  es.H{"type": "integer"},
				"standardTime": es.H{"type": "double"},
				"trashed":      es.H{"type": "boolean"},
				"createTime":   es.H{"type": "date"},
				"updateTime":   es.H{"type": "date"},
			},
		},
	}
)

// StudyDocument is the searchable projection of a study, observations are left out.
type StudyDocument struct {
	ID          types.ID `json:"id"`
	UserID      types.ID `json:"userId"`
	ProcessName string   `json:"processName"`
	Description string   `json:"description"`
	Status      string   `json:"status"`

	CyclesCount  int     `json:"cyclesCount"`
	StandardTime float64 `json:"standardTime"`

	Trashed    bool            `json:"trashed"`
	CreateTime types.Timestamp `json:"createTime"`
	UpdateTime types.Timestamp `json:"updateTime"`
}

func NewStudyDocument(s *study.Study) StudyDocument {
	return StudyDocument{
		ID:           s.ID,
		UserID:       s.UserID,
		ProcessName:  s.ProcessName,
		Description:  s.Description,
		Status:       s.Status,
		CyclesCount:  s.CyclesCount,
		StandardTime: s.StandardTime,
		Trashed:      !s.DeleteTime.IsZero(),
		CreateTime:   s.CreateTime,
		UpdateTime:   s.UpdateTime,
	}
}

func EnsureStudyIndex(s *session.Session) error {
	created, err := es.EnsureIndexFunc(StudyIndexName, StudyIndexBody, s)
	if err != nil {
		return err
	}
	if created {
		logrus.Infof("index %s created", StudyIndexName)
	}
	return nil
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

func IndexStudies(studies []study.Study, s *session.Session) error {
	errs := BatchActionError{}
	for i := range studies {
		doc := NewStudyDocument(&studies[i])
		if err := es.IndexFunc(StudyIndexName, doc.ID, doc, s); err != nil {
			errs[doc.ID] = err
			logrus.Warnf("index study %d %s: %v", doc.ID, doc.ProcessName, err)
		} else {
			logrus.Debugf("index study %d %s successfully", doc.ID, doc.ProcessName)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
