package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	current Config
	output  io.Writer = os.Stderr
)

// SetConfig applies cfg to every logger created so far and to future ones.
func SetConfig(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	current = cfg
	for _, entry := range loggers {
		configure(entry.Logger)
	}
}

// SetOutput redirects all component loggers, mainly for tests.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	output = w
	for _, entry := range loggers {
		entry.Logger.SetOutput(w)
	}
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	configure(logger)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func configure(logger *logrus.Logger) {
	levelStr := "info"
	if env := os.Getenv("CANVASTREAM_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if current.Level != "" {
		levelStr = current.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetReportCaller(current.ReportCaller)
	logger.SetOutput(output)

	switch current.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		interactive := false
		if f, ok := output.(*os.File); ok {
			interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   interactive,
			DisableColors: !interactive,
		})
	}
}
