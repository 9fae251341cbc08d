package domain

import "fmt"

// StructuralError blocks processing before any row is read: unreadable file,
// missing header row, or a duplicate recognized header.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s", e.Reason)
}

func NewStructuralError(format string, args ...any) *StructuralError {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

// CommitFailure is a remote rejection or transport failure after a batch was
// sent whole. The remote message is carried verbatim.
type CommitFailure struct {
	BatchID string
	Status  int
	Message string
}

func (e *CommitFailure) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("batch %s rejected (status %d): %s", e.BatchID, e.Status, e.Message)
	}
	return fmt.Sprintf("batch %s commit failed: %s", e.BatchID, e.Message)
}

// QueryFailure is a remote rejection of a filter/group query.
type QueryFailure struct {
	Status  int
	Message string
}

func (e *QueryFailure) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("query rejected (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("query failed: %s", e.Message)
}
