package authware

import (
	"github.com/goliatone/go-router"

	docflow "github.com/goliatone/go-docflow"
)

// State carries what the stages learn about the request as the pipeline
// advances: the raw bearer token if one was presented, the validated
// claims, and the resolved principal.
type State struct {
	Token     string
	Claims    docflow.AuthClaims
	Principal docflow.Identity
}

type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomeSkip
	outcomeReject
)

// Outcome is the tagged result of a stage: continue to the next stage,
// skip the rest of the pipeline and serve the request, or reject with
// an error.
type Outcome struct {
	kind outcomeKind
	err  error
}

// Continue moves on to the next stage
func Continue() Outcome {
	return Outcome{kind: outcomeContinue}
}

// Skip stops the pipeline and lets the request through as-is
func Skip() Outcome {
	return Outcome{kind: outcomeSkip}
}

// Reject stops the pipeline with an error
func Reject(err error) Outcome {
	return Outcome{kind: outcomeReject, err: err}
}

// Rejected reports whether the outcome carries an error
func (o Outcome) Rejected() bool {
	return o.kind == outcomeReject
}

// Err returns the rejection error, nil otherwise
func (o Outcome) Err() error {
	return o.err
}

// Stage inspects the request and the accumulated state and decides how
// the pipeline proceeds.
type Stage func(ctx router.Context, st *State) Outcome

// Chain composes stages left to right, stopping at the first Skip or
// Reject.
func Chain(stages ...Stage) Stage {
	return func(ctx router.Context, st *State) Outcome {
		for _, stage := range stages {
			if stage == nil {
				continue
			}
			out := stage(ctx, st)
			if out.kind != outcomeContinue {
				return out
			}
		}
		return Continue()
	}
}
