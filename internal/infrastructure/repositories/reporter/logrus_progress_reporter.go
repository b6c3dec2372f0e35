package reporter

import (
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

// LogrusProgressReporter prints discovery progress through logrus.
type LogrusProgressReporter struct {
	log *logger.Logger
}

// NewLogrusProgressReporter creates a reporter writing to the standard logger.
func NewLogrusProgressReporter() repositories.ProgressReporter {
	return NewLogrusProgressReporterWithLogger(logger.StandardLogger())
}

// NewLogrusProgressReporterWithLogger creates a reporter writing to log.
func NewLogrusProgressReporterWithLogger(log *logger.Logger) *LogrusProgressReporter {
	return &LogrusProgressReporter{log: log}
}

func (r *LogrusProgressReporter) Log(message string) {
	r.log.Info(message)
}

// ForItem logs "<label> <name>..." before running action and reports its failure, if any.
func (r *LogrusProgressReporter) ForItem(label, name string, action func() error) error {
	r.log.Infof("  %s %s...", label, name)
	start := time.Now()
	if err := action(); err != nil {
		r.log.Errorf("  %s %s failed: %v", label, name, err)
		return err
	}
	r.log.Debugf("  %s %s done in %s", label, name, time.Since(start).Round(time.Millisecond))
	return nil
}
