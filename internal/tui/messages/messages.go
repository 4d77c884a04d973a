package messages

import "csvdash/internal/watch"

// ErrorMsg reports a failure to show in the status line.
type ErrorMsg struct {
	Err error
}

// LoadCompleteMsg is sent when a catalog load settles. Err is set only
// when the load was cancelled.
type LoadCompleteMsg struct {
	Err error
}

// FileChangedMsg is sent for each watched file change.
type FileChangedMsg struct {
	Change watch.Change
}

// WatchClosedMsg is sent once the watcher's channel closes.
type WatchClosedMsg struct{}
