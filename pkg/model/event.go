// pkg/model/event.go
package model

// EventKind tags a frame in the analysis event stream
type EventKind int

const (
	// EventStatus is an intermediate heartbeat with a progress value
	EventStatus EventKind = iota
	// EventResult is the successful terminal frame
	EventResult
	// EventError is the failed terminal frame
	EventError
)

// Event is one frame of the progress stream produced by a pipeline run.
// A run emits status frames with strictly increasing progress and ends with
// exactly one terminal frame (result or error).
type Event struct {
	Kind     EventKind
	Status   string
	Progress float64
	Err      error
	Result   *AnalysisResult
}

// Terminal reports whether this frame ends the stream
func (e Event) Terminal() bool {
	return e.Kind != EventStatus
}

// statusPayload is the wire shape of an intermediate frame
type statusPayload struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// errorPayload is the wire shape of a failed terminal frame
type errorPayload struct {
	Error    string `json:"error"`
	Complete bool   `json:"complete"`
}

// Payload returns the object serialized into the frame's data field
func (e Event) Payload() interface{} {
	switch e.Kind {
	case EventResult:
		return e.Result
	case EventError:
		msg := "analysis failed"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return errorPayload{Error: msg, Complete: true}
	default:
		return statusPayload{Status: e.Status, Progress: e.Progress}
	}
}

// StatusEvent builds an intermediate frame
func StatusEvent(status string, progress float64) Event {
	return Event{Kind: EventStatus, Status: status, Progress: progress}
}

// ResultEvent builds the successful terminal frame
func ResultEvent(result *AnalysisResult) Event {
	result.Complete = true
	return Event{Kind: EventResult, Result: result}
}

// ErrorEvent builds the failed terminal frame
func ErrorEvent(err error) Event {
	return Event{Kind: EventError, Err: err}
}
