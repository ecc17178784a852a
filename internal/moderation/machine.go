// Package moderation implements the transition engine behind every
// moderated resource in the panel. Each domain supplies an immutable
// transition table; the engine itself holds no state between calls and
// only validates the edge and resolves its side-effect tags. Persisting
// the new status and executing the effects is the caller's job.
package moderation

import "fmt"

// Status is a domain-specific moderation status value.
type Status string

// SideEffect is an abstract instruction for the surrounding system,
// emitted when a legal transition is taken (e.g. credit a wallet). The
// engine never executes effects itself.
type SideEffect string

// Edge describes one legal transition target and its side effects.
type Edge struct {
	To          Status
	SideEffects []SideEffect
}

// Table is a per-domain transition table. Tables are process-wide
// configuration, built once and never mutated.
type Table struct {
	Domain string
	edges  map[Status][]Edge
}

// NewTable builds a transition table for the given domain.
func NewTable(domain string, edges map[Status][]Edge) Table {
	copied := make(map[Status][]Edge, len(edges))
	for from, outs := range edges {
		copied[from] = append([]Edge(nil), outs...)
	}
	return Table{Domain: domain, edges: copied}
}

// Result is a validated transition with its resolved side effects.
type Result struct {
	NextStatus  Status
	SideEffects []SideEffect
}

// IllegalTransitionError reports a transition not declared legal by the
// domain's table. It indicates client/server desynchronization: the
// caller should re-fetch the authoritative status and retry.
type IllegalTransitionError struct {
	Domain    string
	Current   Status
	Requested Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("moderation: %s tidak dapat berpindah dari %s ke %s", e.Domain, e.Current, e.Requested)
}

// Transition validates the requested status change against the table.
// Requesting the current status is a no-op success with no side effects,
// so a re-submitted moderation action stays safe. Illegal requests fail
// with *IllegalTransitionError and propose no side effects.
func (t Table) Transition(current, requested Status) (Result, error) {
	if requested == current {
		return Result{NextStatus: current}, nil
	}
	for _, edge := range t.edges[current] {
		if edge.To == requested {
			return Result{NextStatus: requested, SideEffects: edge.SideEffects}, nil
		}
	}
	return Result{}, &IllegalTransitionError{Domain: t.Domain, Current: current, Requested: requested}
}

// Legal returns the declared target statuses for the given status, in
// table order. Terminal statuses yield an empty slice.
func (t Table) Legal(from Status) []Status {
	outs := t.edges[from]
	targets := make([]Status, 0, len(outs))
	for _, edge := range outs {
		targets = append(targets, edge.To)
	}
	return targets
}

// Terminal reports whether the status has no legal outgoing transitions.
func (t Table) Terminal(s Status) bool {
	return len(t.edges[s]) == 0
}
