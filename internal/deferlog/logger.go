// Package deferlog buffers diagnostics produced while a well is being solved
// so they can be gathered across wells and emitted once, in order, through
// logrus. Nothing is written until Flush; nothing recorded is ever dropped.
package deferlog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Category mirrors the severities a simulator driver reacts to.
type Category int

const (
	Debug Category = iota
	Info
	Warning
	Problem
	Bug
	Error
)

func (c Category) String() string {
	switch c {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Problem:
		return "problem"
	case Bug:
		return "bug"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Level maps a category to the logrus level it is flushed at.
func (c Category) Level() logrus.Level {
	switch c {
	case Debug:
		return logrus.DebugLevel
	case Info:
		return logrus.InfoLevel
	case Warning, Problem:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// Message is one buffered diagnostic. Tag groups related messages, e.g. the
// well name.
type Message struct {
	Category Category
	Tag      string
	Text     string
}

// Logger is safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	messages []Message
}

func New() *Logger {
	return &Logger{}
}

func (l *Logger) add(c Category, tag, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, Message{Category: c, Tag: tag, Text: fmt.Sprintf(format, args...)})
}

func (l *Logger) Debug(tag, format string, args ...any)   { l.add(Debug, tag, format, args...) }
func (l *Logger) Info(tag, format string, args ...any)    { l.add(Info, tag, format, args...) }
func (l *Logger) Warning(tag, format string, args ...any) { l.add(Warning, tag, format, args...) }
func (l *Logger) Problem(tag, format string, args ...any) { l.add(Problem, tag, format, args...) }
func (l *Logger) Bug(tag, format string, args ...any)     { l.add(Bug, tag, format, args...) }
func (l *Logger) Error(tag, format string, args ...any)   { l.add(Error, tag, format, args...) }

// Fail records err as an error message under tag and returns it unchanged,
// so a failure can be logged and propagated in one statement.
func (l *Logger) Fail(tag string, err error) error {
	if err == nil {
		return nil
	}
	l.add(Error, tag, "%s", err.Error())
	return err
}

// Messages returns a copy of the buffered messages.
func (l *Logger) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.messages...)
}

// Len returns the number of buffered messages.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Count returns the number of buffered messages of category c.
func (l *Logger) Count(c Category) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if m.Category == c {
			n++
		}
	}
	return n
}

// Merge appends the messages of others in argument order and clears them.
func (l *Logger) Merge(others ...*Logger) {
	for _, o := range others {
		if o == nil || o == l {
			continue
		}
		o.mu.Lock()
		msgs := o.messages
		o.messages = nil
		o.mu.Unlock()

		l.mu.Lock()
		l.messages = append(l.messages, msgs...)
		l.mu.Unlock()
	}
}

// Flush writes every buffered message to out and clears the buffer.
func (l *Logger) Flush(out logrus.FieldLogger) {
	l.mu.Lock()
	msgs := l.messages
	l.messages = nil
	l.mu.Unlock()

	for _, m := range msgs {
		entry := out.WithField("category", m.Category.String())
		if m.Tag != "" {
			entry = entry.WithField("tag", m.Tag)
		}
		switch m.Category.Level() {
		case logrus.DebugLevel:
			entry.Debug(m.Text)
		case logrus.InfoLevel:
			entry.Info(m.Text)
		case logrus.WarnLevel:
			entry.Warn(m.Text)
		default:
			entry.Error(m.Text)
		}
	}
}

// Err joins the text of all Error messages into one error, or returns nil.
func (l *Logger) Err() error {
	var errs []error
	for _, m := range l.Messages() {
		if m.Category == Error {
			errs = append(errs, fmt.Errorf("%s: %s", m.Tag, m.Text))
		}
	}
	return errors.Join(errs...)
}
