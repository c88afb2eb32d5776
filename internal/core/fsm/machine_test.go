package fsm_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/fsm"
	"github.com/stretchr/testify/assert"
)

type lightState string

const (
	red    lightState = "red"
	green  lightState = "green"
	yellow lightState = "yellow"
	broken lightState = "broken"
)

func newLight() *fsm.StateMachine[lightState] {
	return fsm.New("light", map[lightState][]lightState{
		red:    {green, broken},
		green:  {yellow, broken},
		yellow: {red},
	})
}

func TestStateMachine_CanTransition(t *testing.T) {
	m := newLight()

	tests := []struct {
		name string
		from lightState
		to   lightState
		want bool
	}{
		{"declared edge", red, green, true},
		{"reverse not declared", green, red, false},
		{"self loop not declared", red, red, false},
		{"from terminal", broken, red, false},
		{"unknown source", lightState("blue"), red, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.CanTransition(tt.from, tt.to))
		})
	}
}

func TestStateMachine_ValidateTransition(t *testing.T) {
	m := newLight()

	assert.NoError(t, m.ValidateTransition(yellow, red))

	err := m.ValidateTransition(broken, green)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	var itErr *apperrors.InvalidTransitionError
	if assert.True(t, errors.As(err, &itErr)) {
		assert.Equal(t, "light", itErr.Entity)
		assert.Equal(t, "broken", itErr.From)
		assert.Equal(t, "green", itErr.To)
	}
}

func TestStateMachine_PossibleTransitionsAndTerminal(t *testing.T) {
	m := newLight()

	assert.Equal(t, []lightState{broken, yellow}, m.PossibleTransitions(green))
	assert.Empty(t, m.PossibleTransitions(broken))

	assert.True(t, m.IsTerminal(broken))
	assert.False(t, m.IsTerminal(red))
	assert.True(t, m.Knows(broken))
	assert.False(t, m.Knows(lightState("blue")))
}

func TestStateMachine_TableIsCopied(t *testing.T) {
	table := map[lightState][]lightState{red: {green}}
	m := fsm.New("light", table)
	table[red] = append(table[red], yellow)

	assert.False(t, m.CanTransition(red, yellow))
}
