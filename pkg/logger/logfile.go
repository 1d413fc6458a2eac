package logger

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// fileLog menulis audit log JSON (satu baris per event) ke APP_LOG_FILE.
var fileLog *logrus.Logger

func InitLogFile(path string) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		Panic("failed, creating log directory: " + err.Error())
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		Panic("failed, opening log file: " + err.Error())
	}

	l := logrus.New()
	l.SetOutput(file)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "source",
		},
	})
	fileLog = l
	Infof("✅ Log file initialized at %s", path)
}

// WriteLogToFile records the outcome of one operation. status is "success"
// or "failed"; errorDetails is omitted on success. Without InitLogFile the
// call is a no-op, which keeps tests and the CLI quiet.
func WriteLogToFile(status string, source string, payload any, errorDetails *string) {
	if fileLog == nil {
		return
	}
	fields := logrus.Fields{
		"status":  status,
		"payload": payload,
	}
	if errorDetails != nil {
		fields["error_details"] = *errorDetails
		fileLog.WithFields(fields).Error(source)
		return
	}
	fileLog.WithFields(fields).Info(source)
}
