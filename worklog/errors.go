package worklog

import (
	"fmt"
	"strings"

	"hrsync/internal/timeutil"
)

// Kind identifies a batch-aborting failure.
type Kind string

const (
	KindFormat           Kind = "format"
	KindSchema           Kind = "schema"
	KindRowShape         Kind = "row_shape"
	KindPartialRow       Kind = "partial_row"
	KindDuplicateEntry   Kind = "duplicate_entry"
	KindDateTimeParse    Kind = "datetime_parse"
	KindOverlappingEntry Kind = "overlapping_entries"
	KindInactiveProject  Kind = "inactive_project"
	KindNotATeamMember   Kind = "not_a_team_member"
	KindAuthentication   Kind = "authentication"
	KindEmptyBatch       Kind = "empty_batch"
	KindInvalidInterval  Kind = "invalid_interval"
	KindProjectReference Kind = "project_reference"
	KindProjectNotFound  Kind = "project_not_found"
	KindLookup           Kind = "lookup"
	KindSubmission       Kind = "submission"
)

// PipelineError is implemented by every error that aborts an import run.
// The set is closed: only types in this package implement it.
type PipelineError interface {
	error
	Kind() Kind
	pipelineError()
}

type FormatError struct {
	Path     string
	Expected string
	// Line is set when the failure is tied to one physical line.
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s does not use the expected format: %s is required", e.Path, e.Expected)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s line %d does not use the expected format: %s is required", e.Path, e.Line, e.Expected)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

type SchemaError struct {
	Expected []string
	Actual   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("incorrect headers: expected [%s], got [%s]",
		strings.Join(e.Expected, ", "),
		strings.Join(e.Actual, ", "),
	)
}

type RowShapeError struct {
	Row      int
	Expected int
	Values   []string
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("row %d: expected %d columns, got %d: [%s]",
		e.Row, e.Expected, len(e.Values), strings.Join(e.Values, "; "))
}

type PartialRowError struct {
	Row int
}

func (e *PartialRowError) Error() string {
	return fmt.Sprintf("row %d is incomplete: some but not all fields are empty", e.Row)
}

type DuplicateEntryError struct {
	Entry RawEntry
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate entry in row %d: [%s]", e.Entry.RowNumber, strings.Join(e.Entry.Values(), "; "))
}

type DateTimeParseError struct {
	Row     int
	Value   string
	Pattern string
	Err     error
}

func (e *DateTimeParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q, expected format %s", e.Row, e.Value, e.Pattern)
}

func (e *DateTimeParseError) Unwrap() error { return e.Err }

type OverlappingEntriesError struct {
	First  ResolvedEntry
	Second ResolvedEntry
	// Count is the total number of overlapping pairs in the batch.
	Count int
}

func (e *OverlappingEntriesError) Error() string {
	return fmt.Sprintf(
		"overlapping working times found for personnel number %s:\n"+
			"  entry 1 (row %d): %s - %s\n"+
			"  entry 2 (row %d): %s - %s\n"+
			"please correct the input file",
		e.First.PersonNumber,
		e.First.RowNumber, timeutil.FormatDisplay(e.First.Begin), timeutil.FormatDisplay(e.First.End),
		e.Second.RowNumber, timeutil.FormatDisplay(e.Second.Begin), timeutil.FormatDisplay(e.Second.End),
	)
}

type InactiveProjectError struct {
	ProjectNumber int64
	ProjectName   string
	Status        string
}

func (e *InactiveProjectError) Error() string {
	return fmt.Sprintf("project %q (%d) is not active, status is %q", e.ProjectName, e.ProjectNumber, e.Status)
}

type NotATeamMemberError struct {
	PersonNumber  string
	ProjectNumber int64
	ProjectName   string
}

func (e *NotATeamMemberError) Error() string {
	return fmt.Sprintf("personnel number %s is not an active team member of project %q (%d)",
		e.PersonNumber, e.ProjectName, e.ProjectNumber)
}

type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return "token generation failed, please check your credentials and try again"
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

type EmptyBatchError struct {
	Path string
}

func (e *EmptyBatchError) Error() string {
	return fmt.Sprintf("%s contains no working time rows", e.Path)
}

type InvalidIntervalError struct {
	Entry ResolvedEntry
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("row %d: end %s is not after begin %s",
		e.Entry.RowNumber, timeutil.FormatDisplay(e.Entry.End), timeutil.FormatDisplay(e.Entry.Begin))
}

type ProjectReferenceError struct {
	Row   int
	Value string
}

func (e *ProjectReferenceError) Error() string {
	return fmt.Sprintf("row %d: project number %q is not a positive integer", e.Row, e.Value)
}

type ProjectNotFoundError struct {
	Row  int
	Name string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("row %d: project %q not found", e.Row, e.Name)
}

type LookupError struct {
	ProjectNumber int64
	Err           error
}

func (e *LookupError) Error() string {
	if e.ProjectNumber == 0 {
		return fmt.Sprintf("project lookup failed: %v", e.Err)
	}
	return fmt.Sprintf("lookup of project %d failed: %v", e.ProjectNumber, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

type SubmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submitting working times failed: %v", e.Err)
	}
	return fmt.Sprintf("submitting working times failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (*FormatError) Kind() Kind             { return KindFormat }
func (*SchemaError) Kind() Kind             { return KindSchema }
func (*RowShapeError) Kind() Kind           { return KindRowShape }
func (*PartialRowError) Kind() Kind         { return KindPartialRow }
func (*DuplicateEntryError) Kind() Kind     { return KindDuplicateEntry }
func (*DateTimeParseError) Kind() Kind      { return KindDateTimeParse }
func (*OverlappingEntriesError) Kind() Kind { return KindOverlappingEntry }
func (*InactiveProjectError) Kind() Kind    { return KindInactiveProject }
func (*NotATeamMemberError) Kind() Kind     { return KindNotATeamMember }
func (*AuthenticationError) Kind() Kind     { return KindAuthentication }
func (*EmptyBatchError) Kind() Kind         { return KindEmptyBatch }
func (*InvalidIntervalError) Kind() Kind    { return KindInvalidInterval }
func (*ProjectReferenceError) Kind() Kind   { return KindProjectReference }
func (*ProjectNotFoundError) Kind() Kind    { return KindProjectNotFound }
func (*LookupError) Kind() Kind             { return KindLookup }
func (*SubmissionError) Kind() Kind         { return KindSubmission }

func (*FormatError) pipelineError()             {}
func (*SchemaError) pipelineError()             {}
func (*RowShapeError) pipelineError()           {}
func (*PartialRowError) pipelineError()         {}
func (*DuplicateEntryError) pipelineError()     {}
func (*DateTimeParseError) pipelineError()      {}
func (*OverlappingEntriesError) pipelineError() {}
func (*InactiveProjectError) pipelineError()    {}
func (*NotATeamMemberError) pipelineError()     {}
func (*AuthenticationError) pipelineError()     {}
func (*EmptyBatchError) pipelineError()         {}
func (*InvalidIntervalError) pipelineError()    {}
func (*ProjectReferenceError) pipelineError()   {}
func (*ProjectNotFoundError) pipelineError()    {}
func (*LookupError) pipelineError()             {}
func (*SubmissionError) pipelineError()         {}
