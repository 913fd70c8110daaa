package codec

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Candidate is one shape an untagged union may take. Keys lists every key that is legal
// for the shape; Decode is only called once the input's keys fit. Tag is the canonical
// discriminator literal of the shape when the union has an optional one.
type Candidate[T any] struct {
	Name   string
	Keys   KeySet
	Tag    string
	Decode func(Object) (T, error)
}

// Fitting returns, in trial order, the candidates whose key set admits every key of
// obj. When none does the error is NoMatchingVariant carrying each rejection.
func Fitting[T any](union string, obj Object, candidates ...Candidate[T]) ([]Candidate[T], error) {
	var (
		fit      []Candidate[T]
		rejected error
	)
	for _, c := range candidates {
		if err := obj.Allow(c.Keys); err != nil {
			rejected = multierr.Append(rejected, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		fit = append(fit, c)
	}
	if len(fit) == 0 {
		return nil, &DecodeError{Kind: ErrNoMatchingVariant, Detail: union, Cause: rejected}
	}
	return fit, nil
}

// FirstMatch tries candidates in order and decodes with the first one whose key set
// admits every key of obj. Failures inside the chosen candidate are returned as they
// are; they never fall through to later candidates.
func FirstMatch[T any](union string, obj Object, candidates ...Candidate[T]) (T, error) {
	fit, err := Fitting(union, obj, candidates...)
	if err != nil {
		var zero T
		return zero, err
	}
	return fit[0].Decode(obj)
}

// FirstTagged is FirstMatch for an input carrying the discriminator tag: among the
// candidates whose keys fit, the first with that Tag is decoded. If shapes fit but none
// carries tag, the error wraps ErrTagMismatch.
func FirstTagged[T any](union string, obj Object, tag string, candidates ...Candidate[T]) (T, error) {
	var zero T
	fit, err := Fitting(union, obj, candidates...)
	if err != nil {
		return zero, err
	}
	names := make([]string, 0, len(fit))
	for _, c := range fit {
		if c.Tag == tag {
			return c.Decode(obj)
		}
		names = append(names, c.Name)
	}
	return zero, fmt.Errorf("%w: %s fields fit %v, not tag %s", ErrTagMismatch, union, names, tag)
}

// ErrTagMismatch reports a discriminator that names none of the shapes the keys fit.
var ErrTagMismatch = errors.New("tag does not match fields")

// CheckReachable fails if a candidate's key set is a subset of an earlier candidate's,
// which would make it impossible to ever select.
func CheckReachable[T any](candidates ...Candidate[T]) error {
	for j := range candidates {
		for i := 0; i < j; i++ {
			if candidates[j].Keys.SubsetOf(candidates[i].Keys) {
				return fmt.Errorf("candidate %s is shadowed by %s", candidates[j].Name, candidates[i].Name)
			}
		}
	}
	return nil
}
