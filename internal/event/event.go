package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	FileHashed
	FileFailed
	FileSkipped
)

var typeNames = [...]string{
	ScanStarted:  "ScanStarted",
	ScanComplete: "ScanComplete",
	FileHashed:   "FileHashed",
	FileFailed:   "FileFailed",
	FileSkipped:  "FileSkipped",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from a manifest build.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // relative path
	Size      int64  // file size in bytes
	Hash      string // hex digest (FileHashed)
	Total     int64  // total files (ScanComplete)
	TotalSize int64  // total bytes (ScanComplete)
	Error     error
}
