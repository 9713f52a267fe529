package pipeline

// Status is the single source of truth for what operations are valid on a
// pipeline.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRecording  Status = "recording"
	StatusPaused     Status = "paused"
	StatusFileLoaded Status = "file-loaded"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// transitions is the legal state graph. Ready and error are terminal for a
// cycle; a new capture or upload re-enters the machine from either.
var transitions = map[Status][]Status{
	StatusIdle:       {StatusRecording, StatusFileLoaded, StatusError},
	StatusRecording:  {StatusPaused, StatusProcessing, StatusError, StatusIdle},
	StatusPaused:     {StatusRecording, StatusProcessing, StatusError, StatusIdle},
	StatusFileLoaded: {StatusProcessing, StatusError, StatusIdle},
	StatusProcessing: {StatusReady, StatusError, StatusIdle},
	StatusReady:      {StatusRecording, StatusFileLoaded, StatusError, StatusIdle},
	StatusError:      {StatusRecording, StatusFileLoaded, StatusIdle},
}

// CanTransition reports whether the state graph permits moving from one
// status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends a capture/upload cycle.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// Busy reports whether the pipeline is actively capturing or transcribing.
// Post-processing actions are refused while busy.
func (s Status) Busy() bool {
	switch s {
	case StatusRecording, StatusPaused, StatusProcessing:
		return true
	}
	return false
}
