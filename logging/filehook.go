package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogrusFileHook appends every entry as a JSON line to a file
type LogrusFileHook struct {
	sync.Mutex

	file      *os.File
	formatter *logrus.JSONFormatter
	levels    []logrus.Level
}

// NewLogrusFileHook opens $file for appending and logs all entries at $minLevel or above
func NewLogrusFileHook(file string, minLevel logrus.Level) (*LogrusFileHook, error) {
	logFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to open file for filehook: %v\n", err)
		return nil, err
	}

	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		if level <= minLevel {
			levels = append(levels, level)
		}
	}

	return &LogrusFileHook{
		file:      logFile,
		formatter: &logrus.JSONFormatter{},
		levels:    levels,
	}, nil
}

// Fire event
func (hook *LogrusFileHook) Fire(entry *logrus.Entry) error {
	line, err := hook.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to format entry for filehook: %v\n", err)
		return err
	}

	hook.Lock()
	defer hook.Unlock()

	_, err = hook.file.Write(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write file on filehook: %v\n", err)
		return err
	}
	return nil
}

func (hook *LogrusFileHook) Levels() []logrus.Level {
	return hook.levels
}

func (hook *LogrusFileHook) Close() error {
	hook.Lock()
	defer hook.Unlock()

	return hook.file.Close()
}
