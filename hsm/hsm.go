// Package hsm implements the hierarchical state machine spec.md §4.8
// describes: a fixed table of up to 254 states arranged in a superstate
// tree, dispatched innermost-handler-first with least-common-ancestor exit
// and enter walks on transition.
package hsm

import (
	"fmt"

	"github.com/vle-forge/irritator-sub004/simerr"
)

// Invalid is the sentinel StateID meaning "no state" (no parent, no
// default child, no transition target).
const Invalid StateID = 0

// MaxStates is the largest number of states a Machine can hold, per
// spec.md §4.8 ("up to 254 states") — 255 is reserved for Invalid plus one
// spare so StateID fits a single byte with room for a sentinel.
const MaxStates = 254

// StateID identifies one state in the machine; valid IDs are 1..MaxStates.
type StateID uint8

// Event is an opaque payload delivered to a state's Handler.
type Event struct {
	Kind int
	Data any
}

// Action is either EnterAction or ExitAction, run when a state is entered
// or exited during a transition.
type Action func(m *Machine)

// Handler processes an Event while in a given state and reports whether it
// consumed the event (stopping the innermost-first walk to superstates) or
// wants the machine to transition.
type Handler func(m *Machine, e Event) Result

// Result is a Handler's outcome.
type Result struct {
	Handled    bool
	Transition StateID // Invalid means "no transition requested"
}

// Handled returns a Result reporting the event was consumed with no
// transition.
func Handled() Result { return Result{Handled: true} }

// Unhandled returns a Result reporting the event should propagate to the
// superstate.
func Unhandled() Result { return Result{} }

// TransitionTo returns a Result requesting a transition to target.
func TransitionTo(target StateID) Result { return Result{Handled: true, Transition: target} }

type stateDef struct {
	parent       StateID
	defaultChild StateID
	onEnter      Action
	onExit       Action
	handler      Handler
}

// Machine is a fixed-table hierarchical state machine (spec.md §4.8).
type Machine struct {
	states    [MaxStates + 1]stateDef
	defined   [MaxStates + 1]bool
	current   StateID
	dispatching bool
}

// NewMachine constructs an empty machine; states must be added with
// AddState before Start.
func NewMachine() *Machine {
	return &Machine{}
}

// AddState registers a state. parent is Invalid for a top-level state.
// defaultChild is the state entered when a transition targets this state
// and it has children (Invalid if this state is a leaf).
func (m *Machine) AddState(id StateID, parent, defaultChild StateID, onEnter, onExit Action, handler Handler) {
	simerr.Ensure(id != Invalid && int(id) <= MaxStates, "hsm: invalid state id %d", id)
	simerr.Ensure(!m.defined[id], "hsm: state %d already defined", id)
	m.states[id] = stateDef{parent: parent, defaultChild: defaultChild, onEnter: onEnter, onExit: onExit, handler: handler}
	m.defined[id] = true
}

// Start enters the machine at root, descending through default children
// until a leaf state is reached, running onEnter at every level.
func (m *Machine) Start(root StateID) {
	simerr.Ensure(m.current == Invalid, "hsm: already started")
	m.current = root
	if en := m.states[root].onEnter; en != nil {
		en(m)
	}
	m.descendAndEnter(root)
}

// Current returns the machine's current (leaf) state.
func (m *Machine) Current() StateID { return m.current }

// InState reports whether id is the current state or one of its ancestors,
// the query spec.md §4.8 calls "in_state" for testing superstate
// membership.
func (m *Machine) InState(id StateID) bool {
	for s := m.current; s != Invalid; s = m.states[s].parent {
		if s == id {
			return true
		}
	}
	return false
}

// Dispatch delivers e to the current state, walking up to superstates
// until a handler consumes it, then performs any requested transition.
// Dispatch must not be called reentrantly from within a Handler or Action
// (spec.md §4.8's no-dispatch-from-handler invariant); violating this
// panics via simerr.Ensure.
func (m *Machine) Dispatch(e Event) {
	simerr.Ensure(!m.dispatching, "hsm: reentrant dispatch from handler or action")
	simerr.Ensure(m.current != Invalid, "hsm: dispatch before Start")

	m.dispatching = true
	var target StateID
	for s := m.current; s != Invalid; s = m.states[s].parent {
		if h := m.states[s].handler; h != nil {
			res := h(m, e)
			if res.Handled {
				target = res.Transition
				break
			}
		}
	}
	m.dispatching = false

	if target != Invalid {
		m.transition(target)
	}
}

// transition performs the exit/enter walk from the current state to
// target, via their least common ancestor (spec.md §4.8 "transition()
// performs an LCA walk: exit from current up to (not including) the LCA,
// then enter from the LCA down to target").
func (m *Machine) transition(target StateID) {
	lca := m.leastCommonAncestor(m.current, target)

	for s := m.current; s != lca; s = m.states[s].parent {
		if ex := m.states[s].onExit; ex != nil {
			ex(m)
		}
	}

	path := m.pathToAncestor(target, lca)
	m.current = lca
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		if en := m.states[s].onEnter; en != nil {
			en(m)
		}
		m.current = s
	}
	m.descendAndEnter(m.current)
}

// descendAndEnter walks from s through default children to a leaf,
// running onEnter at every level descended into and leaving m.current at
// the leaf.
func (m *Machine) descendAndEnter(s StateID) {
	for {
		child := m.states[s].defaultChild
		if child == Invalid {
			m.current = s
			return
		}
		if en := m.states[child].onEnter; en != nil {
			en(m)
		}
		s = child
	}
}

func (m *Machine) depth(s StateID) int {
	d := 0
	for ; s != Invalid; s = m.states[s].parent {
		d++
	}
	return d
}

func (m *Machine) leastCommonAncestor(a, b StateID) StateID {
	da, db := m.depth(a), m.depth(b)
	for da > db {
		a = m.states[a].parent
		da--
	}
	for db > da {
		b = m.states[b].parent
		db--
	}
	for a != b {
		a = m.states[a].parent
		b = m.states[b].parent
	}
	return a
}

func (m *Machine) pathToAncestor(s, ancestor StateID) []StateID {
	var path []StateID
	for s != ancestor {
		path = append(path, s)
		s = m.states[s].parent
	}
	return path
}

// String renders a StateID for diagnostics.
func (s StateID) String() string {
	if s == Invalid {
		return "hsm.Invalid"
	}
	return fmt.Sprintf("hsm.StateID(%d)", uint8(s))
}
