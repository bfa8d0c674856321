package pricing

import "errors"

var (
	ErrMissingDates  = errors.New("start and end date and time are required")
	ErrInvalidDates  = errors.New("dates could not be parsed")
	ErrInvalidWindow = errors.New("end must be after start")
	ErrInvalidRates  = errors.New("vehicle rates must not be negative")
)
