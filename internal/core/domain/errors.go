package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when a task name is registered twice with a conflicting definition.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetsSpecified is returned when no workloads are specified for the build command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrWorkloadNotFound is returned when a requested workload is not among the loaded configs.
	ErrWorkloadNotFound = zerr.New("workload not found")

	// ErrNodiskWithoutBin is returned when a workload requests a disk-less build but declares no binary.
	ErrNodiskWithoutBin = zerr.New("nodisk requires a binary output")

	// ErrGuestInitWithoutBin is returned when a workload runs a guest-init but has no binary to boot it with.
	ErrGuestInitWithoutBin = zerr.New("guest-init requires a binary to boot")

	// ErrInvalidRunSpec is returned when a run spec sets both or neither of command and path.
	ErrInvalidRunSpec = zerr.New("run spec must set exactly one of command or path")

	// ErrUnknownDistro is returned when a workload references a distro with no registered builder.
	ErrUnknownDistro = zerr.New("unknown distro")

	// ErrMissingExternalCheckout is returned when a required source tree is absent or not initialized.
	ErrMissingExternalCheckout = zerr.New("required source checkout is missing")

	// ErrMissingScript is returned when a declared host-init, guest-init or run script does not exist.
	ErrMissingScript = zerr.New("script not found")

	// ErrExternalToolFailure is returned when an external command exits non-zero or cannot be started.
	ErrExternalToolFailure = zerr.New("external command failed")

	// ErrTaskBlocked is recorded for a task whose dependency failed or was itself blocked.
	ErrTaskBlocked = zerr.New("blocked by failed dependency")

	// ErrBuildExecutionFailed is returned when at least one requested task failed or was blocked.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task action fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrInputNotFound is returned when a declared file dependency does not exist.
	ErrInputNotFound = zerr.New("input not found")

	// ErrSignalEvaluationFailed is returned when a staleness signal cannot be evaluated.
	ErrSignalEvaluationFailed = zerr.New("failed to evaluate staleness signal")

	// ErrInvalidBootTransition is returned when the boot-injection state machine is driven out of order.
	ErrInvalidBootTransition = zerr.New("invalid boot injection transition")

	// ErrMountFailed is returned when an image cannot be mounted.
	ErrMountFailed = zerr.New("failed to mount image")

	// ErrUnmountFailed is returned when an image cannot be unmounted.
	ErrUnmountFailed = zerr.New("failed to unmount image")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrConfigReadFailed is returned when a workload file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read workload file")

	// ErrConfigParseFailed is returned when a workload file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse workload file")

	// ErrUnknownBase is returned when a workload's base cannot be resolved.
	ErrUnknownBase = zerr.New("unknown base workload")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrFileCopyFailed is returned when copying a file on the host fails.
	ErrFileCopyFailed = zerr.New("failed to copy file")
)

// Annotate attaches a key/value pair to the error kind. The result still
// matches kind with errors.Is; further metadata is added with zerr.With.
func Annotate(kind error, key string, value any) error {
	return zerr.With(zerr.Wrap(kind, ""), key, value)
}
