package curve

import "errors"

var (
	// ErrInvalidInput indicates a non-positive efficiency reading or rated power.
	ErrInvalidInput = errors.New("curve: invalid input")

	// ErrUnderdetermined indicates fewer samples than fit parameters.
	ErrUnderdetermined = errors.New("curve: underdetermined fit")

	// ErrSingularFit indicates a singular least-squares system
	// (duplicate or collinear load values).
	ErrSingularFit = errors.New("curve: singular fit")
)
