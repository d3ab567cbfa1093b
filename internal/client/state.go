// Package client keeps an in-memory copy of the gym's collections and applies
// mutations optimistically against the HTTP API.
package client

import (
	"slices"

	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/machine"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/trainer"
)

// Kind names one cached collection.
type Kind string

const (
	KindMembers  Kind = "members"
	KindTrainers Kind = "trainers"
	KindMachines Kind = "machines"
	KindFinances Kind = "finances"
)

// State is the cached copy of the server collections.
// Rows added locally and not yet confirmed carry negative ids.
type State struct {
	Members  []member.Member
	Trainers []trainer.Trainer
	Machines []machine.Machine
	Finances []finance.Finance
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	return State{
		Members:  slices.Clone(s.Members),
		Trainers: slices.Clone(s.Trainers),
		Machines: slices.Clone(s.Machines),
		Finances: slices.Clone(s.Finances),
	}
}

// Action is one state transition. See Reduce.
type Action interface {
	action()
}

// Loaded replaces the whole state with fresh server data.
type Loaded struct{ State State }

// Added appends Item to its collection. Item is a member.Member, trainer.Trainer, machine.Machine or finance.Finance.
type Added struct{ Item any }

// Replaced swaps the row with Item's id for Item.
type Replaced struct{ Item any }

// Removed drops the row with ID from the collection.
type Removed struct {
	Kind Kind
	ID   int64
}

// Reconciled renames a temporary id to the id the server assigned.
// For members it also re-links finance rows that point at the temporary id.
type Reconciled struct {
	Kind   Kind
	TempID int64
	ID     int64
}

// Restored puts one collection back to its value in Snapshot.
type Restored struct {
	Kind     Kind
	Snapshot State
}

func (Loaded) action()     {}
func (Added) action()      {}
func (Replaced) action()   {}
func (Removed) action()    {}
func (Reconciled) action() {}
func (Restored) action()   {}

// Reduce returns the state after applying a. It never modifies s; unknown items leave the state unchanged.
// PRE: none
// POST: the result shares no slice that Reduce wrote to with s
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Loaded:
		return a.State.Clone()

	case Added:
		switch it := a.Item.(type) {
		case member.Member:
			s.Members = appendCopy(s.Members, it)
		case trainer.Trainer:
			s.Trainers = appendCopy(s.Trainers, it)
		case machine.Machine:
			s.Machines = appendCopy(s.Machines, it)
		case finance.Finance:
			s.Finances = appendCopy(s.Finances, it)
		}

	case Replaced:
		switch it := a.Item.(type) {
		case member.Member:
			s.Members = replaceByID(s.Members, it, memberID)
		case trainer.Trainer:
			s.Trainers = replaceByID(s.Trainers, it, trainerID)
		case machine.Machine:
			s.Machines = replaceByID(s.Machines, it, machineID)
		case finance.Finance:
			s.Finances = replaceByID(s.Finances, it, financeID)
		}

	case Removed:
		switch a.Kind {
		case KindMembers:
			s.Members = removeByID(s.Members, a.ID, memberID)
		case KindTrainers:
			s.Trainers = removeByID(s.Trainers, a.ID, trainerID)
		case KindMachines:
			s.Machines = removeByID(s.Machines, a.ID, machineID)
		case KindFinances:
			s.Finances = removeByID(s.Finances, a.ID, financeID)
		}

	case Reconciled:
		switch a.Kind {
		case KindMembers:
			s.Members = renameID(s.Members, a.TempID, a.ID, memberID, func(m *member.Member, id int64) { m.ID = id })
			s.Finances = relinkMember(s.Finances, a.TempID, a.ID)
		case KindTrainers:
			s.Trainers = renameID(s.Trainers, a.TempID, a.ID, trainerID, func(t *trainer.Trainer, id int64) { t.ID = id })
		case KindMachines:
			s.Machines = renameID(s.Machines, a.TempID, a.ID, machineID, func(m *machine.Machine, id int64) { m.ID = id })
		case KindFinances:
			s.Finances = renameID(s.Finances, a.TempID, a.ID, financeID, func(f *finance.Finance, id int64) { f.ID = id })
		}

	case Restored:
		switch a.Kind {
		case KindMembers:
			s.Members = slices.Clone(a.Snapshot.Members)
		case KindTrainers:
			s.Trainers = slices.Clone(a.Snapshot.Trainers)
		case KindMachines:
			s.Machines = slices.Clone(a.Snapshot.Machines)
		case KindFinances:
			s.Finances = slices.Clone(a.Snapshot.Finances)
		}
	}
	return s
}

func memberID(m member.Member) int64    { return m.ID }
func trainerID(t trainer.Trainer) int64 { return t.ID }
func machineID(m machine.Machine) int64 { return m.ID }
func financeID(f finance.Finance) int64 { return f.ID }

func appendCopy[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

func replaceByID[T any](list []T, item T, id func(T) int64) []T {
	out := slices.Clone(list)
	for i := range out {
		if id(out[i]) == id(item) {
			out[i] = item
		}
	}
	return out
}

func removeByID[T any](list []T, target int64, id func(T) int64) []T {
	if !slices.ContainsFunc(list, func(v T) bool { return id(v) == target }) {
		return list
	}
	return slices.DeleteFunc(slices.Clone(list), func(v T) bool { return id(v) == target })
}

func renameID[T any](list []T, from, to int64, id func(T) int64, set func(*T, int64)) []T {
	out := slices.Clone(list)
	for i := range out {
		if id(out[i]) == from {
			set(&out[i], to)
		}
	}
	return out
}

func relinkMember(rows []finance.Finance, from, to int64) []finance.Finance {
	out := slices.Clone(rows)
	for i := range out {
		if out[i].MemberID != nil && *out[i].MemberID == from {
			id := to
			out[i].MemberID = &id
		}
	}
	return out
}
