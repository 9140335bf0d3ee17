package driver

// Stage is a phase of a check as seen by one declaration file.
type Stage string

const (
	StageLoad    Stage = "load"
	StageAnalyze Stage = "analyze"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Event reports progress for a declaration file, or for the whole check
// when File is empty.
type Event struct {
	File   string
	Module string
	Stage  Stage
	Status Status
}

// ProgressSink consumes progress events. OnEvent is called from the
// goroutine running the check.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
