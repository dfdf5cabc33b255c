package query

import (
	"github.com/garrettladley/rrdash/internal/xerrors"
)

type Status uint8

const (
	StatusIdle Status = iota
	StatusHidden
	StatusInvalid
	StatusLoading
	StatusError
	StatusNoData
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusHidden:
		return "hidden"
	case StatusInvalid:
		return "invalid"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusNoData:
		return "no_data"
	case StatusSuccess:
		return "success"
	default:
		return "idle"
	}
}

// State is a point-in-time view of one registered query.
type State struct {
	View   string
	Status Status
	Data   any
	Err    error
	// Message explains an Invalid status.
	Message  string
	HasData  bool
	InFlight bool
}

// IsLoading is a first load: nothing to show yet.
func (s State) IsLoading() bool { return s.InFlight && !s.HasData }

// IsFetching covers first loads and background refetches alike.
func (s State) IsFetching() bool { return s.InFlight }

type ViewError struct {
	View string
	Err  error
}

type Summary struct {
	IsLoading  bool
	IsFetching bool
	Errors     []ViewError
}

// First returns the first error in view order, or nil.
func (s Summary) First() error {
	errs := make([]error, len(s.Errors))
	for i, e := range s.Errors {
		errs[i] = e.Err
	}
	return xerrors.First(errs...)
}

// Aggregate folds per-view states into one summary. Hidden and invalid views
// contribute nothing.
func Aggregate(states []State) Summary {
	var sum Summary
	for _, s := range states {
		if s.Status == StatusHidden || s.Status == StatusInvalid {
			continue
		}
		sum.IsLoading = sum.IsLoading || s.IsLoading()
		sum.IsFetching = sum.IsFetching || s.IsFetching()
		if s.Status == StatusError && s.Err != nil {
			sum.Errors = append(sum.Errors, ViewError{View: s.View, Err: s.Err})
		}
	}
	return sum
}
