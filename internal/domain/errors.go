package domain

import (
	"fmt"
	"time"
)

// InvalidRangeError indicates a caller-supplied date range where the start
// comes after the end. It is reported before any network call is made.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// NotFoundError indicates the requested user or data does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// PermissionError indicates the token lacks the scope required by the query.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Message)
}

// IdentityMismatchError indicates a viewer-scoped query was issued for a
// username that is not the token's own login. Private repository access
// requires querying as the token's viewer.
type IdentityMismatchError struct {
	Viewer    string
	Requested string
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("token belongs to %q, not %q: private repositories require the user's own token",
		e.Viewer, e.Requested)
}

// GraphQLError carries the first message of a server-reported GraphQL error
// list that could not be classified more specifically.
type GraphQLError struct {
	Message string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("graphql error: %s", e.Message)
}

// TransportError wraps a network or HTTP failure surfaced unchanged from the
// underlying transport.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DataShapeError indicates a response decoded successfully but an expected
// nested field was missing or null.
type DataShapeError struct {
	Field string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape: missing field %q", e.Field)
}
