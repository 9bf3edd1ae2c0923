// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package challenges

import (
	"fmt"
	"slices"
)

// State is a stage of the acquisition pipeline.
type State int

// Pipeline states, in the order a successful run visits them.
const (
	StateIdle State = iota
	StateCataloging
	StateAwaitingSelection
	StateFetching
	StateMaterializing
	StateAwaitingInstallChoice
	StateInstalling
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:                  "idle",
	StateCataloging:            "cataloging",
	StateAwaitingSelection:     "awaiting_selection",
	StateFetching:              "fetching",
	StateMaterializing:         "materializing",
	StateAwaitingInstallChoice: "awaiting_install_choice",
	StateInstalling:            "installing",
	StateDone:                  "done",
	StateFailed:                "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// transitions lists the legal successors of every non-terminal state.
// StateFailed is reachable from any of them and is not repeated here.
var transitions = map[State][]State{
	StateIdle:                  {StateCataloging},
	StateCataloging:            {StateAwaitingSelection, StateDone},
	StateAwaitingSelection:     {StateFetching},
	StateFetching:              {StateMaterializing},
	StateMaterializing:         {StateAwaitingInstallChoice},
	StateAwaitingInstallChoice: {StateInstalling, StateDone},
	StateInstalling:            {StateDone},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return slices.Contains(transitions[from], to)
}
