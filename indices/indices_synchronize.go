package indices

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"smartmethods/bizerror"
	"smartmethods/client/es"
	"smartmethods/domain"
	"smartmethods/domain/study"
	"smartmethods/event"
	"smartmethods/indices/indexlog"
	"smartmethods/persistence"
	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	StudyIndexEventHandlerName = "studyIndexer"
	indexRobot                 = &session.Session{Identity: session.Identity{Name: "index-robot"}, Context: context.Background()}

	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc         = IndicesFullSync
	ScheduleNewSyncRunFunc      = ScheduleNewSyncRun
	RecoverPendingIndexLogsFunc = RecoverPendingIndexLogs

	SyncBatchSize = 500
)

// ScheduleNewSyncRun starts a full sync in background, false means one is already running.
func ScheduleNewSyncRun(s *session.Session) (bool, error) {
	if !s.Authenticated() {
		return false, bizerror.ErrUnauthenticated
	}
	return startSyncRun("requested"), nil
}

// startSyncRun is the only way to launch a full sync, so that runs never overlap.
func startSyncRun(trigger string) bool {
	lock.Lock()
	if running {
		lock.Unlock()
		return false
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		if err := IndicesFullSyncFunc(); err != nil {
			logrus.Errorf("%s indices full sync: %v", trigger, err)
		}
	}()
	waitRunning.Wait()
	return true
}

func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	if err := EnsureStudyIndex(indexRobot); err != nil {
		return fmt.Errorf("ensure index %s: %w", StudyIndexName, err)
	}

	page := 1
	for {
		studies, err := study.LoadStudiesFunc(page, SyncBatchSize)
		if err != nil {
			return fmt.Errorf("load studies (page = %d, pageSize = %d): %w", page, SyncBatchSize, err)
		}

		if len(studies) == 0 {
			logrus.Infof("indices fully sync: there are no more study to index")
			return nil
		}

		if err := IndexStudies(studies, indexRobot); err != nil {
			logrus.Warnf("indices fully sync: error on index studies(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
		}
		page++
	}
}

// IndexStudyEventHandle keeps the index in line with study events, failures stay pending in the index log.
func IndexStudyEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != study.SourceType {
		return nil
	}

	deletion := e.EventCategory == event.EventCategoryPurged
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	log, err := indexlog.CreateIndexLogFunc(e.SourceType, e.SourceId, e.SourceDesc, deletion, types.CurrentTimestamp(), db)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("create index log of study %d, %v", e.SourceId, err),
			HandlerIdentifier: StudyIndexEventHandlerName,
		}
	}

	if err := syncStudy(e.SourceId, deletion); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("index study %d, %v", e.SourceId, err),
			HandlerIdentifier: StudyIndexEventHandlerName,
		}
	}
	if err := indexlog.FinishIndexLogFunc(log.ID); err != nil {
		logrus.Warnf("finish index log %d: %v", log.ID, err)
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: StudyIndexEventHandlerName}
}

func syncStudy(id types.ID, deletion bool) error {
	if deletion {
		return es.DeleteDocumentByIdFunc(StudyIndexName, id, indexRobot)
	}
	s, err := study.LoadStudyFunc(id)
	if errors.Is(err, domain.ErrNotFound) {
		return es.DeleteDocumentByIdFunc(StudyIndexName, id, indexRobot)
	}
	if err != nil {
		return err
	}
	return IndexStudies([]study.Study{*s}, indexRobot)
}

// RecoverPendingIndexLogs replays the index updates which did not reach the index, returns the recovered count.
func RecoverPendingIndexLogs() (int, error) {
	recovered := 0
	for {
		logs, err := indexlog.LoadPendingIndexLogFunc(1, SyncBatchSize)
		if err != nil {
			return recovered, err
		}
		finished := 0
		for _, log := range logs {
			if err := syncStudy(log.SourceId, log.Deletion); err != nil {
				logrus.Warnf("recover index log %d of study %d: %v", log.ID, log.SourceId, err)
				continue
			}
			if err := indexlog.FinishIndexLogFunc(log.ID); err != nil {
				logrus.Warnf("finish index log %d: %v", log.ID, err)
				continue
			}
			finished++
		}
		recovered += finished

		// finished logs leave the pending set, a batch without progress would be loaded again
		if len(logs) < SyncBatchSize || finished == 0 {
			return recovered, nil
		}
	}
}
