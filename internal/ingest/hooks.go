package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// PrivacyFilter is consulted before a vault note is written. A false
// result skips the note; the overall ingest still succeeds.
type PrivacyFilter interface {
	ShouldIngest(path string) bool
}

// TrialLogger receives one event per ingest outcome. Ingestion failures
// are never propagated to the caller, so this log is the only place to
// distinguish "duplicate" from "failed" from "filtered".
type TrialLogger interface {
	LogSuccess(action, context string, fields map[string]interface{})
	LogFailure(action string, err error, context string, fields map[string]interface{})
}

// AllowAll is the default privacy filter
type AllowAll struct{}

// ShouldIngest always permits note writing
func (AllowAll) ShouldIngest(string) bool { return true }

// WriterTrialLogger writes single-line JSON events to an io.Writer
type WriterTrialLogger struct {
	w io.Writer
}

// NewTrialLogger creates a trial logger writing to w
func NewTrialLogger(w io.Writer) *WriterTrialLogger {
	if w == nil {
		w = os.Stderr
	}
	return &WriterTrialLogger{w: w}
}

type trialEvent struct {
	TS      string                 `json:"ts"`
	Level   string                 `json:"level"`
	Action  string                 `json:"action"`
	Context string                 `json:"context,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// LogSuccess records a successful action
func (l *WriterTrialLogger) LogSuccess(action, context string, fields map[string]interface{}) {
	l.emit(trialEvent{
		TS:      time.Now().UTC().Format(time.RFC3339),
		Level:   "success",
		Action:  action,
		Context: context,
		Fields:  fields,
	})
}

// LogFailure records a failed action with its error
func (l *WriterTrialLogger) LogFailure(action string, err error, context string, fields map[string]interface{}) {
	event := trialEvent{
		TS:      time.Now().UTC().Format(time.RFC3339),
		Level:   "failure",
		Action:  action,
		Context: context,
		Fields:  fields,
	}
	if err != nil {
		event.Error = err.Error()
	}
	l.emit(event)
}

func (l *WriterTrialLogger) emit(event trialEvent) {
	line, err := json.Marshal(event)
	if err != nil {
		fmt.Fprintf(l.w, `{"level":"failure","action":"trial_log","error":%q}`+"\n", err.Error())
		return
	}
	l.w.Write(append(line, '\n'))
}
