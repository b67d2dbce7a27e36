package ihop

import "errors"

// Error taxonomy.
//
// Most of the failure modes the refinement and repair engines encounter
// are local control flow, not reported errors: a branch-cycle, a
// method's exhaustion, a max-depth cut, an inapplicable action, or an
// unverified goal all just drive a backtrack, invisibly to the caller.
// They only surface as one of the two sentinels below once the engine
// has genuinely run out of alternatives.
//
// A to-do item whose name matches nothing in any registry takes the
// same path: its node is built with zero available methods (or, for an
// action, a nil ActionFunc that Invoke reports as inapplicable), so it
// fails exactly like a method/action that was tried and didn't work,
// surfacing as ErrInfeasible rather than a distinct error.
var (
	// ErrInfeasible is returned by Plan when no decomposition of the
	// original to-do list succeeds, even after any configured iterative
	// deepening.
	ErrInfeasible = errors.New("ihop: planning infeasible")

	// ErrRepairExhausted is returned by Replan when escalating the
	// repair up through every ancestor of the failed action still
	// can't produce a plan whose prefix matches execution history.
	ErrRepairExhausted = errors.New("ihop: repair exhausted")
)
