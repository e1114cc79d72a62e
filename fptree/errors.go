package fptree

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned for a non-positive support threshold or a
	// malformed transaction.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLookupMiss is returned when an itemset or item expected to be
	// frequent is not known to the tree or the itemset map.
	ErrLookupMiss = errors.New("lookup miss")
)

// IsInvalidInput reports whether err was caused by ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Cause(err) == ErrInvalidInput
}

// IsLookupMiss reports whether err was caused by ErrLookupMiss.
func IsLookupMiss(err error) bool {
	return errors.Cause(err) == ErrLookupMiss
}
