package storage

import "fmt"

// StoreError is the single failure kind the ledger store surfaces: any
// connectivity or constraint failure during add, delete, fetch or schema
// init. The store never retries; callers decide what to show the user.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
