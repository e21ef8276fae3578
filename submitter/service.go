package submitter

import (
	"context"
	"errors"
	"net/http"

	"hrsync/hrworks"
	"hrsync/worklog"
)

// ProjectLookup fetches a single project with its team members.
type ProjectLookup interface {
	GetProject(ctx context.Context, number int64) (hrworks.Project, error)
}

// Submitter posts a working time payload and reports the response status code.
type Submitter interface {
	SubmitWorkingTimes(ctx context.Context, batch hrworks.WorkingTimeBatch) (int, error)
}

// ValidateMembership checks that the entry's project is active and that the
// person is one of its active team members.
func ValidateMembership(ctx context.Context, lookup ProjectLookup, entry worklog.ResolvedEntry) error {
	project, err := lookup.GetProject(ctx, entry.ProjectNumber)
	if err != nil {
		return &worklog.LookupError{ProjectNumber: entry.ProjectNumber, Err: err}
	}

	name := project.Name
	if name == "" {
		name = entry.ProjectName
	}
	if !project.IsActive() {
		return &worklog.InactiveProjectError{
			ProjectNumber: entry.ProjectNumber,
			ProjectName:   name,
			Status:        project.Status,
		}
	}
	if !project.HasActiveMember(entry.PersonNumber) {
		return &worklog.NotATeamMemberError{
			PersonNumber:  entry.PersonNumber,
			ProjectNumber: entry.ProjectNumber,
			ProjectName:   name,
		}
	}
	return nil
}

// ValidateAll runs ValidateMembership for every entry in order and stops at
// the first failure. Each entry triggers its own lookup.
func ValidateAll(ctx context.Context, lookup ProjectLookup, entries []worklog.ResolvedEntry) error {
	for _, entry := range entries {
		if err := ValidateMembership(ctx, lookup, entry); err != nil {
			return err
		}
	}
	return nil
}

func BuildPayload(entries []worklog.ResolvedEntry) hrworks.WorkingTimeBatch {
	data := make([]hrworks.WorkingTime, 0, len(entries))
	for _, entry := range entries {
		data = append(data, hrworks.WorkingTime{
			PersonnelNumber:  entry.PersonNumber,
			BeginDateAndTime: entry.BeginWire(),
			EndDateAndTime:   entry.EndWire(),
			Type:             hrworks.WorkingTimeType,
			ProjectNumber:    entry.ProjectNumber,
		})
	}
	return hrworks.WorkingTimeBatch{
		DeleteOverlappingWorkingTimes: false,
		Data:                          data,
	}
}

// Submit sends all entries in a single request. Any non-2xx status is
// reported as *worklog.SubmissionError carrying the status code.
func Submit(ctx context.Context, submitter Submitter, entries []worklog.ResolvedEntry) (int, error) {
	if len(entries) == 0 {
		return 0, &worklog.SubmissionError{Err: errors.New("no working times to submit")}
	}

	status, err := submitter.SubmitWorkingTimes(ctx, BuildPayload(entries))
	if err != nil {
		var statusErr *hrworks.StatusError
		if errors.As(err, &statusErr) {
			return statusErr.StatusCode, &worklog.SubmissionError{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
		}
		return status, &worklog.SubmissionError{StatusCode: status, Err: err}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return status, &worklog.SubmissionError{StatusCode: status}
	}
	return status, nil
}
