package tui

import "github.com/vito/progrock"

// MsgTapeUpdate wraps one status update read from the feed.
type MsgTapeUpdate struct {
	Update *progrock.StatusUpdate
}

// MsgTapeEnded is sent once the feed has no more updates.
type MsgTapeEnded struct{}
