// Package wizard implements the easy-config wizard state machine.
//
// A [Sequencer] owns the single [State] of a session and moves through the
// closed set of [StepID] values in order. Each transition runs the target
// step's validator against the inputs of the screen being left; only a
// successful validator lets the view tear down the current step, install the
// target and run the target's post-render hook.
//
// Errors come in two kinds. A [*ValidationError] is a user input problem: the
// current step stays on screen and State is untouched. An [*IntegrityError]
// means the caller broke an invariant (unknown step, skipped step, unknown
// algorithm) and the session cannot continue.
package wizard
