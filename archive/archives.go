// Package archive keeps the report of every completed study in object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"smartmethods/client/s3"
	"smartmethods/domain"
	"smartmethods/domain/study"
	"smartmethods/event"
	"smartmethods/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
)

const HandlerIdentifier = "reportArchiver"

var (
	ArchiveReportFunc = ArchiveReport
	DetailArchiveFunc = DetailArchive

	archiveRobot = &session.Session{Identity: session.Identity{Name: "archive-robot"}, Context: context.Background()}
)

func ObjectKey(id types.ID) string {
	return "reports/" + id.String() + ".json"
}

func ArchiveReport(st *study.Study, s *session.Session) error {
	data, err := json.Marshal(study.BuildReport(st))
	if err != nil {
		return err
	}
	return s3.PutObjectFunc(ObjectKey(st.ID), bytes.NewReader(data), s, oss.ContentType("application/json"))
}

// DetailArchive returns the archived report json of a live study owned by the session user.
func DetailArchive(id types.ID, s *session.Session) ([]byte, error) {
	if _, err := study.DetailStudyFunc(id, s); err != nil {
		return nil, err
	}
	r, err := s3.GetObjectFunc(ObjectKey(id), s)
	if err != nil {
		if errors.Is(err, s3.ErrNoSuchKey) {
			return nil, fmt.Errorf("report archive of study %v: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// HandleEvent archives studies entering the completed status and drops the archive of purged ones.
func HandleEvent(ev *event.EventRecord) *event.EventHandleResult {
	if ev == nil || ev.SourceType != study.SourceType {
		return nil
	}

	if ev.EventCategory == event.EventCategoryPurged {
		if err := s3.DeleteObjectFunc(ObjectKey(ev.SourceId), archiveRobot); err != nil {
			return &event.EventHandleResult{
				Message:           fmt.Sprintf("delete report archive %v, %v", ev.SourceId, err),
				HandlerIdentifier: HandlerIdentifier,
			}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: HandlerIdentifier}
	}

	if to, ok := study.StatusChangedTo(ev); !ok || to != study.StatusCompleted {
		return nil
	}
	st, err := study.LoadStudyFunc(ev.SourceId)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("load study %v when archive report, %v", ev.SourceId, err),
			HandlerIdentifier: HandlerIdentifier,
		}
	}
	if err := ArchiveReportFunc(st, archiveRobot); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("archive report %v, %v", ev.SourceId, err),
			HandlerIdentifier: HandlerIdentifier,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: HandlerIdentifier}
}
