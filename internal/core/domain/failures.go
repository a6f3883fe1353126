package domain

import (
	"fmt"
	"strings"
)

// DriftError reports that the base model changed since a changeset was created.
type DriftError struct {
	ChangesetID string
	Report      DriftReport
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s: changeset %q, drifted layers: %s",
		ErrDriftDetected.Error(), e.ChangesetID, strings.Join(e.Report.LayerNames(), ", "))
}

// Is matches ErrDriftDetected.
func (e *DriftError) Is(target error) bool {
	return target == ErrDriftDetected
}

// ValidationError reports that the merged model has validation issues.
type ValidationError struct {
	ChangesetID string
	Issues      []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), e.Issues[0])
	}
	return fmt.Sprintf("%s: %d issues", ErrValidationFailed.Error(), len(e.Issues))
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// CommitError reports a commit that did not complete. The base model is left as it was.
type CommitError struct {
	ChangesetID string
	// Committed is the number of changes that reached the model, always zero after rollback.
	Committed int
	Failed    int
	// Sequence and ElementID identify the change that failed, if any.
	Sequence  int
	ElementID string
	Cause     error
	// RollbackErr is set when restoring the persisted model also failed.
	RollbackErr error
}

func (e *CommitError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: changeset %q (%d committed, %d failed)", ErrCommitFailed.Error(), e.ChangesetID, e.Committed, e.Failed)
	if e.ElementID != "" {
		fmt.Fprintf(&b, " at change #%d on %s", e.Sequence, e.ElementID)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.RollbackErr != nil {
		b.WriteString("; rollback failed: ")
		b.WriteString(e.RollbackErr.Error())
	}
	return b.String()
}

// Is matches ErrCommitFailed.
func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}

// Unwrap returns the cause and the rollback failure.
func (e *CommitError) Unwrap() []error {
	var out []error
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	if e.RollbackErr != nil {
		out = append(out, e.RollbackErr)
	}
	return out
}

// SnapshotError reports a model that could not be fingerprinted.
type SnapshotError struct {
	Layer string
	Cause error
}

func (e *SnapshotError) Error() string {
	msg := ErrSnapshotFailed.Error()
	if e.Layer != "" {
		msg += ": layer " + e.Layer
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches ErrSnapshotFailed.
func (e *SnapshotError) Is(target error) bool {
	return target == ErrSnapshotFailed
}

func (e *SnapshotError) Unwrap() error {
	return e.Cause
}
