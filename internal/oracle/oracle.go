// Package oracle wraps calls to generative models in a tiered degrade chain.
//
// A call is tried against each remote tier in order (primary, then
// secondary). The first tier whose answer parses into the expected shape
// wins. If every remote tier fails, a local handler supplies the answer, so a
// call always terminates with a structurally valid result.
package oracle

import (
	"context"
	"errors"
)

// Sentinel errors for tier failures.
var (
	// ErrRateLimited is returned when a tier's local quota is exhausted.
	ErrRateLimited = errors.New("oracle: rate limited")

	// ErrInvalidResponse is returned when an answer does not match the expected shape.
	ErrInvalidResponse = errors.New("oracle: invalid response")

	// ErrEmptyResponse is returned when a model answers with no content.
	ErrEmptyResponse = errors.New("oracle: empty response")
)

// Call names the kind of judgment requested. It labels metrics and logs.
type Call string

const (
	CallScore      Call = "score"
	CallPrioritize Call = "prioritize"
	CallInsight    Call = "insight"
	CallSimulate   Call = "simulate"
)

// Source identifies which rung of the degrade chain produced a result.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceLocal     Source = "local"
)

// IsRemote reports whether the result came from a model rather than the local handler.
func (s Source) IsRemote() bool {
	return s != "" && s != SourceLocal
}

// Request is the contract sent to every tier.
type Request struct {
	Call              Call
	SystemInstruction string
	Prompt            string
	// Schema is a JSON example of the required answer shape.
	Schema string
}

// Tier is one remote rung of the degrade chain.
type Tier interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Result carries a value and the tier that produced it.
type Result[T any] struct {
	Value  T
	Source Source
}
