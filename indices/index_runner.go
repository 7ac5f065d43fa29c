package indices

import (
	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const RecoverySchedule = "@every 5m"

// StartCron runs the full sync on schedule (standard 5 fields) and the pending index recovery every five minutes.
func StartCron(fullSyncSchedule string) (*cron.Cron, error) {
	crontab := cron.New()
	if _, err := crontab.AddFunc(fullSyncSchedule, fullSyncJob); err != nil {
		return nil, err
	}
	if _, err := crontab.AddFunc(RecoverySchedule, recoveryJob); err != nil {
		return nil, err
	}
	crontab.Start()
	return crontab, nil
}

func fullSyncJob() {
	if !startSyncRun("scheduled") {
		logrus.Info("scheduled indices full sync skipped, a sync is already running")
	}
}

func recoveryJob() {
	recovered, err := RecoverPendingIndexLogsFunc()
	if err != nil {
		logrus.Errorf("scheduled pending index recovery: %v", err)
		return
	}
	if recovered > 0 {
		logrus.Infof("scheduled pending index recovery: %d recovered", recovered)
	}
}
