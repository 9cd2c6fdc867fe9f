package pull

import "fmt"

// Request validation errors. pullsvc maps these to codes.InvalidArgument.
var (
	ErrMissingUserID   = fmt.Errorf("pull: no user id provided")
	ErrMissingBackupID = fmt.Errorf("pull: no backup id provided")
)

// ErrBackupNotFound is returned by Initialize when no backup matches
// the requested (UserID, BackupID) pair. pullsvc maps it to
// codes.NotFound.
type ErrBackupNotFound struct {
	UserID   string
	BackupID string
}

func (e *ErrBackupNotFound) Error() string {
	return fmt.Sprintf("pull: no backup found for provided parameters: user id [%s], backup id [%s]", e.UserID, e.BackupID)
}

// InvariantViolation marks a condition the reactor's own state
// machine should never reach. Seeing one means the reactor was driven
// incorrectly (WriteResponse called out of order, or called again
// after termination) or its own bookkeeping went wrong (data left in
// the chunk queue after the end-of-blob sentinel, a log index past the
// end), rather than that the request was bad; pullsvc maps it to
// codes.Internal.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "pull: invariant violation: " + e.Msg
}

func invariant(msg string) error {
	return &InvariantViolation{Msg: msg}
}
