package reportstore

import "fmt"

// ErrInvalidLimit implements "error", for the description see Error.
type ErrInvalidLimit struct {
	Limit int
}

func (err ErrInvalidLimit) Error() string {
	return fmt.Sprintf("invalid limit %d: must be a positive integer", err.Limit)
}

// ErrConnect implements "error", for the description see Error.
type ErrConnect struct {
	Driver string
	Err    error
}

func (err ErrConnect) Error() string {
	return fmt.Sprintf("unable to connect to the %s report store: %v", err.Driver, err.Err)
}

func (err ErrConnect) Unwrap() error {
	return err.Err
}

// ErrSchema implements "error", for the description see Error.
type ErrSchema struct {
	Err error
}

func (err ErrSchema) Error() string {
	return fmt.Sprintf("unable to create the report schema: %v", err.Err)
}

func (err ErrSchema) Unwrap() error {
	return err.Err
}

// ErrInsert implements "error", for the description see Error.
type ErrInsert struct {
	ReportType string
	Err        error
}

func (err ErrInsert) Error() string {
	return fmt.Sprintf("unable to insert report '%s': %v", err.ReportType, err.Err)
}

func (err ErrInsert) Unwrap() error {
	return err.Err
}

// ErrQuery implements "error", for the description see Error.
type ErrQuery struct {
	Err error
}

func (err ErrQuery) Error() string {
	return fmt.Sprintf("unable to query reports: %v", err.Err)
}

func (err ErrQuery) Unwrap() error {
	return err.Err
}
