package tst

import "errors"

var (
	// ErrCapacity is returned when inserting a word would push the node
	// array past the maximum addressable node offset.
	ErrCapacity = errors.New("node array capacity exceeded")

	// ErrDistanceRange is returned for a negative distance other than
	// NoLimit.
	ErrDistanceRange = errors.New("distance out of range")

	// ErrInvalidData is returned when decoding a buffer that is not a
	// valid serialized set: too short, bad magic, unsupported version,
	// unknown flag bits, or a corrupt node stream. The wrapped message
	// names the cause.
	ErrInvalidData = errors.New("invalid data")

	// ErrNilArgument is the panic value used when a required function or
	// sequence argument is nil.
	ErrNilArgument = errors.New("nil argument")
)
