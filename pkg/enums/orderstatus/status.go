package orderstatus

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the lifecycle state of an order as the backend reports it.
// Values outside Enum are tolerated and carried verbatim.
type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	return cases.Title(language.English).String(strings.ToLower(s.Name))
}

// Known reports whether s is one of the lifecycle statuses.
func (s Status) Known() bool {
	return ByName(s.Name) != nil
}

func (s Status) IsTerminal() bool {
	return s == Statuses.Served
}

// Next returns the only forward transition offered from s.
func (s Status) Next() (Status, bool) {
	switch s {
	case Statuses.Pending:
		return Statuses.Cooking, true
	case Statuses.Cooking:
		return Statuses.Ready, true
	case Statuses.Ready:
		return Statuses.Served, true
	default:
		return Status{}, false
	}
}

// Action is the label of the control that moves s forward, empty when none.
func (s Status) Action() string {
	switch s {
	case Statuses.Pending:
		return "Start Cooking"
	case Statuses.Cooking:
		return "Mark Ready"
	case Statuses.Ready:
		return "Completed"
	default:
		return ""
	}
}

type Enum struct {
	Pending Status
	Cooking Status
	Ready   Status
	Served  Status
}

var Statuses = Enum{
	Pending: Status{Name: "PENDING"},
	Cooking: Status{Name: "COOKING"},
	Ready:   Status{Name: "READY"},
	Served:  Status{Name: "SERVED"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Cooking,
	Statuses.Ready,
	Statuses.Served,
}

// ByName returns the status for a given name, or nil if not found.
// Matching ignores case and surrounding spaces.
func ByName(name string) *Status {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// Parse canonicalizes a known status and keeps anything else as given.
func Parse(name string) Status {
	if s := ByName(name); s != nil {
		return *s
	}
	return Status{Name: name}
}
