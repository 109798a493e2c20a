package logger

import (
	"github.com/sirupsen/logrus"
)

// Log — общий логгер приложения. JSON в production, текст в development.
var Log *logrus.Logger

// Init настраивает логгер с указанным уровнем. Неизвестный уровень
// откатывается на info.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter переключает вывод на человекочитаемый текст.
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
