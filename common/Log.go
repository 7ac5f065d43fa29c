package common

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func init() {
	Log = logrus.StandardLogger()
	Log.Out = os.Stdout
	Log.Formatter = &logrus.TextFormatter{}
	Log.AddHook(&DefaultFieldsHook{})
}

// ConfigureLog switches to json output in release mode.
func ConfigureLog(level string, release bool) {
	if release {
		Log.Formatter = &logrus.JSONFormatter{}
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		Log.SetLevel(lvl)
	} else if level != "" {
		Log.Warnf("unknown log level %q, keep %s", level, Log.GetLevel())
	}
}

type DefaultFieldsHook struct {
}

func (hook *DefaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *DefaultFieldsHook) Fire(e *logrus.Entry) error {
	e.Data["serviceName"] = GetServiceName()
	e.Data["serviceInstance"] = GetServiceInstance()
	return nil
}

func GetServiceName() string {
	if name := os.Getenv("SERVICE_NAME"); name != "" {
		return name
	}
	return "smartmethods"
}

func GetServiceInstance() string {
	if instance := os.Getenv("SERVICE_INSTANCE"); instance != "" {
		return instance
	}
	hostname, _ := os.Hostname()
	return hostname
}
