package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер в JSON формате.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Setup выбирает уровень и формат логов по окружению.
func Setup(env string) {
	if env == "production" {
		Init("info")
		return
	}
	Init("debug")
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Component возвращает запись с полем component, чтобы логи можно было фильтровать по подсистеме.
// До Init используется стандартный логгер logrus.
func Component(name string) *logrus.Entry {
	if Log == nil {
		return logrus.WithField("component", name)
	}
	return Log.WithField("component", name)
}
