package context

import (
	gocontext "context"
	"time"

	"github.com/sirupsen/logrus"
)

// Context extends the regular golang context.Context interface with access to
// the logger and the identifiers of the current run, job and unit.
type Context interface {
	gocontext.Context
	Logger() *logrus.Entry
	RunID() string
	JobName() string
	UnitID() string
}

// CancelFunc releases resources associated with a derived context.
type CancelFunc = gocontext.CancelFunc

var base = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	return l
}

// SetLevel sets the level of the package logger.
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
}

// Background returns a non-nil, empty Context.
func Background() Context {
	return ctx{
		Context: gocontext.Background(),
	}
}

// FromContext returns a new Context from the given go context.
func FromContext(c gocontext.Context) Context {
	return ctx{
		Context: c,
	}
}

// WithRunID returns a copy of the context with a run identifier.
func WithRunID(c Context, runID string) Context {
	return ctx{c, runID, c.JobName(), c.UnitID()}
}

// WithJobName returns a copy of the context with a job name.
func WithJobName(c Context, job string) Context {
	return ctx{c, c.RunID(), job, c.UnitID()}
}

// WithUnitID returns a copy of the context with a unit identifier.
func WithUnitID(c Context, unitID string) Context {
	return ctx{c, c.RunID(), c.JobName(), unitID}
}

// WithTimeout returns a copy of the context that is cancelled after the given duration.
func WithTimeout(c Context, d time.Duration) (Context, CancelFunc) {
	gc, cancel := gocontext.WithTimeout(c, d)
	return ctx{gc, c.RunID(), c.JobName(), c.UnitID()}, cancel
}

type ctx struct {
	gocontext.Context
	runID   string
	jobName string
	unitID  string
}

func (c ctx) Logger() *logrus.Entry {
	e := logrus.NewEntry(base)
	if c.runID != "" {
		e = e.WithField("run_id", c.runID)
	}
	if c.jobName != "" {
		e = e.WithField("job", c.jobName)
	}
	if c.unitID != "" {
		e = e.WithField("unit", c.unitID)
	}
	return e
}

func (c ctx) RunID() string {
	return c.runID
}

func (c ctx) JobName() string {
	return c.jobName
}

func (c ctx) UnitID() string {
	return c.unitID
}
