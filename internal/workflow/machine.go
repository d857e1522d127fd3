// Package workflow holds the status transition table for cases, lab reports
// and transfers. In manual mode any listed status may follow any other, which
// is how status dropdowns have always behaved; strict mode enforces the table.
package workflow

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/casetrail/casetrail/internal/platform/httpx"
)

//go:embed transitions.yaml
var defaultTable []byte

// Kind names a record type with a status workflow.
type Kind string

// Supported kinds.
const (
	KindCase     Kind = "case"
	KindReport   Kind = "report"
	KindTransfer Kind = "transfer"
)

// Mode selects how transitions are checked.
type Mode string

// Supported modes.
const (
	ModeManual Mode = "manual"
	ModeStrict Mode = "strict"
)

var (
	// ErrUnknownState reports a status outside the kind's state list.
	ErrUnknownState = fmt.Errorf("workflow: unknown state: %w", httpx.ErrValidation)
	// ErrTransitionNotAllowed reports an edge missing from the table or not open to the role.
	ErrTransitionNotAllowed = fmt.Errorf("workflow: transition not allowed: %w", httpx.ErrConflict)
)

// Transition is one edge of the table.
type Transition struct {
	From  string   `yaml:"from"`
	To    string   `yaml:"to"`
	Roles []string `yaml:"roles"`
}

type table struct {
	States      []string     `yaml:"states"`
	Transitions []Transition `yaml:"transitions"`
}

// Machine checks status changes against the table.
type Machine struct {
	mode  Mode
	kinds map[Kind]table
}

// Load parses the embedded transition table.
func Load(mode Mode) (*Machine, error) {
	return Parse(defaultTable, mode)
}

// MustLoad is Load for callers that treat a broken embedded table as fatal.
func MustLoad(mode Mode) *Machine {
	m, err := Load(mode)
	if err != nil {
		panic(err)
	}
	return m
}

// Parse builds a machine from a YAML table.
func Parse(data []byte, mode Mode) (*Machine, error) {
	switch mode {
	case ModeManual, ModeStrict:
	case "":
		mode = ModeManual
	default:
		return nil, fmt.Errorf("workflow: unknown mode %q", mode)
	}
	var raw map[Kind]table
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("workflow: parse table: %w", err)
	}
	for kind, t := range raw {
		if len(t.States) == 0 {
			return nil, fmt.Errorf("workflow: %s has no states", kind)
		}
		for _, tr := range t.Transitions {
			if !slices.Contains(t.States, tr.From) || !slices.Contains(t.States, tr.To) {
				return nil, fmt.Errorf("workflow: %s edge %q -> %q uses unknown state", kind, tr.From, tr.To)
			}
		}
	}
	return &Machine{mode: mode, kinds: raw}, nil
}

// Mode returns the checking mode.
func (m *Machine) Mode() Mode { return m.mode }

// States lists the statuses of kind in display order.
func (m *Machine) States(kind Kind) []string {
	return slices.Clone(m.kinds[kind].States)
}

// Initial returns the status new records of kind start in.
func (m *Machine) Initial(kind Kind) string {
	states := m.kinds[kind].States
	if len(states) == 0 {
		return ""
	}
	return states[0]
}

// Check validates a status change made by role.
func (m *Machine) Check(kind Kind, from, to, role string) error {
	t, ok := m.kinds[kind]
	if !ok {
		return fmt.Errorf("workflow: unknown kind %q", kind)
	}
	if !slices.Contains(t.States, to) {
		return fmt.Errorf("%w: %s %q", ErrUnknownState, kind, to)
	}
	if from == to || m.mode == ModeManual {
		return nil
	}
	for _, tr := range t.Transitions {
		if tr.From == from && tr.To == to && roleAllowed(tr.Roles, role) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q -> %q as %s", ErrTransitionNotAllowed, kind, from, to, role)
}

// Next lists the statuses role may move a record of kind to from its current status.
func (m *Machine) Next(kind Kind, from, role string) []string {
	t := m.kinds[kind]
	var out []string
	if m.mode == ModeManual {
		for _, s := range t.States {
			if s != from {
				out = append(out, s)
			}
		}
		return out
	}
	for _, tr := range t.Transitions {
		if tr.From == from && roleAllowed(tr.Roles, role) && !slices.Contains(out, tr.To) {
			out = append(out, tr.To)
		}
	}
	return out
}

func roleAllowed(roles []string, role string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
