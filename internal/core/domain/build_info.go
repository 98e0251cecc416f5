package domain

import "time"

// FileFingerprint records the state of a file dependency at the time of a successful run.
type FileFingerprint struct {
	ModTime int64  `json:"mtime"`
	Size    int64  `json:"size"`
	Hash    string `json:"hash"`
}

// BuildInfo represents the persisted state of a task's last successful run.
type BuildInfo struct {
	TaskName  string                     `json:"task_name,omitzero"`
	FileDeps  map[string]FileFingerprint `json:"file_deps,omitempty"`
	Signals   map[string]string          `json:"signals,omitempty"`
	Timestamp time.Time                  `json:"timestamp,omitzero"`
}
