package app

import "fmt"

// moduleError qualifies a module failure with its position in the file.
type moduleError struct {
	index int
	name  string
	err   error
}

func (e *moduleError) Error() string {
	return fmt.Sprintf("module %d (%s): %v", e.index, e.name, e.err)
}

func (e *moduleError) Unwrap() error {
	return e.err
}
