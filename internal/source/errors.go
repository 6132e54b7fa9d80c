package source

import "fmt"

// StatusError reports a transport-level failure: the upstream API answered
// with a non-2xx status. Callers treat it as log-and-skip material.
type StatusError struct {
	Source     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "status error"
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Source, e.StatusCode)
}

// NotFoundError reports an explicit "no such record" answer from the source,
// which may arrive inside a 2xx body. It is deliberately distinct from
// StatusError so callers can tell "does not exist" from "could not ask".
type NotFoundError struct {
	Source string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "not found"
	}
	if e.ID == "" {
		return fmt.Sprintf("%s: record not found", e.Source)
	}
	return fmt.Sprintf("%s: %s not found", e.Source, e.ID)
}
