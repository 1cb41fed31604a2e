package service

import "errors"

// Sentinel errors returned by the services. Handlers map them onto the
// response error codes; none of them should ever surface as a raw 500.
var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrNotEnrolled      = errors.New("student is not enrolled in the exam's module")
	ErrNotModuleStaff   = errors.New("exam belongs to another staff module")
	ErrWindowClosed     = errors.New("exam is outside its open window")
	ErrNoQuestions      = errors.New("exam has no linked questions")
	ErrAttemptNotFound  = errors.New("no attempt exists for this exam")
	ErrAttemptCompleted = errors.New("attempt is already completed")
	ErrResultNotReady   = errors.New("no completed attempt to show results for")
	ErrQuestionNotFound = errors.New("question not found")
)

// Principals are resolved once at the boundary (from JWT claims) and passed
// explicitly into every operation, so no handler re-derives roles ad hoc.

// StudentPrincipal identifies an authenticated student.
type StudentPrincipal struct {
	ID int
}

// StaffPrincipal identifies an authenticated staff member. ModuleID mirrors
// the token claim; authorization re-resolves the module through the
// directory, which stays authoritative across reassignments.
type StaffPrincipal struct {
	ID       int
	ModuleID int
}
