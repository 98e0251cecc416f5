package domain

import "go.trai.ch/zerr"

// BootState tracks the boot-injection protocol applied to an image.
//
// Idle -> ScriptInstalled -> Booted -> Cleared. Cleared is also reachable
// directly from ScriptInstalled when the boot itself fails.
type BootState string

const (
	// BootIdle means no init script has been installed yet.
	BootIdle BootState = "Idle"
	// BootScriptInstalled means the one-shot script is the image's active boot action.
	BootScriptInstalled BootState = "ScriptInstalled"
	// BootBooted means the image was booted and the script ran.
	BootBooted BootState = "Booted"
	// BootCleared means the boot action was reset to the no-op action.
	BootCleared BootState = "Cleared"
)

var bootTransitions = map[BootState][]BootState{
	BootIdle:            {BootScriptInstalled},
	BootScriptInstalled: {BootBooted, BootCleared},
	BootBooted:          {BootCleared},
}

// Next validates a transition from s to next and returns next.
func (s BootState) Next(next BootState) (BootState, error) {
	for _, allowed := range bootTransitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, zerr.With(Annotate(ErrInvalidBootTransition, "from", string(s)), "to", string(next))
}
