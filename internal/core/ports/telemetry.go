package ports

import (
	"context"
	"io"
)

// Telemetry records the progress of build tasks.
type Telemetry interface {
	// Record starts a vertex for a task and returns a context carrying it.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is the telemetry handle of a single task.
type Vertex interface {
	Stdout() io.Writer
	Stderr() io.Writer
	Complete(err error)
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a context carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
