// Package domain contains the core domain models of the workload build graph.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks.
type Graph struct {
	tasks          map[string]*Task
	dependents     map[string][]string
	executionOrder []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[string]*Task),
	}
}

// AddTask registers a task and reports whether it was added.
// Registration is idempotent: if a task with the same name already exists the
// call is a no-op and the existing definition is kept.
func (g *Graph) AddTask(t *Task) bool {
	if _, exists := g.tasks[t.Name]; exists {
		return false
	}
	g.tasks[t.Name] = t
	g.executionOrder = nil
	g.dependents = nil
	return true
}

// GetTask returns the task registered under name.
func (g *Graph) GetTask(name string) (*Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns how many tasks are registered under name (0 or 1).
func (g *Graph) TaskCount(name string) int {
	if _, ok := g.tasks[name]; ok {
		return 1
	}
	return 0
}

// Len returns the number of registered tasks.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Validate checks for missing dependencies and cycles using a topological sort.
// It populates the execution order and the reverse dependency index.
func (g *Graph) Validate() error {
	order := make([]string, 0, len(g.tasks))
	visited := make(map[string]int, len(g.tasks)) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		task := g.tasks[u]
		for _, dep := range task.TaskDeps {
			if _, exists := g.tasks[dep]; !exists {
				return zerr.With(Annotate(ErrMissingDependency, "dependency", dep), "task", u)
			}
			switch visited[dep] {
			case 1:
				return g.buildCycleError(path, dep)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		order = append(order, u)
		return nil
	}

	// Sorted iteration keeps the order stable across runs for disconnected components.
	for _, name := range g.sortedNames() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	dependents := make(map[string][]string, len(g.tasks))
	for _, name := range order {
		for _, dep := range g.tasks[name].TaskDeps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	g.executionOrder = order
	g.dependents = dependents
	return nil
}

func (g *Graph) sortedNames() []string {
	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return Annotate(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Dependents returns the names of tasks that declare name as a task dependency.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(name string) []string {
	return g.dependents[name]
}

// Closure returns the set of tasks reachable from targets over task dependencies,
// targets included.
func (g *Graph) Closure(targets []string) (map[string]bool, error) {
	closure := make(map[string]bool)
	queue := make([]string, 0, len(targets))

	for _, name := range targets {
		if _, ok := g.tasks[name]; !ok {
			return nil, Annotate(ErrTaskNotFound, "task", name)
		}
		if !closure[name] {
			closure[name] = true
			queue = append(queue, name)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range g.tasks[current].TaskDeps {
			if _, ok := g.tasks[dep]; !ok {
				return nil, zerr.With(Annotate(ErrMissingDependency, "dependency", dep), "task", current)
			}
			if !closure[dep] {
				closure[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	return closure, nil
}
