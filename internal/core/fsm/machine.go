// Package fsm holds the transition tables that guard every workflow entity.
package fsm

import (
	"sort"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
)

// StateMachine is an immutable table of legal status changes for one entity type.
type StateMachine[S ~string] struct {
	entity      string
	transitions map[S][]S
}

// New builds a machine for entity from a from -> allowed targets table.
// States listed only as targets are treated as terminal.
func New[S ~string](entity string, transitions map[S][]S) *StateMachine[S] {
	table := make(map[S][]S, len(transitions))
	for from, targets := range transitions {
		table[from] = append([]S(nil), targets...)
		for _, to := range targets {
			if _, ok := transitions[to]; !ok {
				table[to] = nil
			}
		}
	}
	return &StateMachine[S]{entity: entity, transitions: table}
}

// Entity returns the entity name used in transition errors.
func (m *StateMachine[S]) Entity() string {
	return m.entity
}

// CanTransition reports whether from -> to is a declared edge.
func (m *StateMachine[S]) CanTransition(from, to S) bool {
	for _, target := range m.transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an *apperrors.InvalidTransitionError when from -> to is not allowed.
func (m *StateMachine[S]) ValidateTransition(from, to S) error {
	if m.CanTransition(from, to) {
		return nil
	}
	return &apperrors.InvalidTransitionError{Entity: m.entity, From: string(from), To: string(to)}
}

// PossibleTransitions lists the states reachable from from, sorted.
func (m *StateMachine[S]) PossibleTransitions(from S) []S {
	targets := append([]S(nil), m.transitions[from]...)
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}

// IsTerminal reports whether no transition leaves s.
func (m *StateMachine[S]) IsTerminal(s S) bool {
	return len(m.transitions[s]) == 0
}

// Knows reports whether s appears in the table at all.
func (m *StateMachine[S]) Knows(s S) bool {
	_, ok := m.transitions[s]
	return ok
}
