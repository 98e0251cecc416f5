package qemu

import "go.trai.ch/marshal/internal/core/ports"

// NewLineWriter exposes the console line writer for tests.
func NewLineWriter(logger ports.Logger) interface {
	Write(p []byte) (int, error)
	Close() error
} {
	return &lineWriter{logger: logger}
}
