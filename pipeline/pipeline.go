// Package pipeline runs one import of a working time file from parsing to submission.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"hrsync/hrworks"
	"hrsync/importer"
	"hrsync/internal/classify"
	"hrsync/internal/logging"
	"hrsync/internal/timeutil"
	"hrsync/submitter"
	"hrsync/worklog"
)

// ProjectLister lists every project visible to the token. Used in name mode.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]hrworks.Project, error)
}

// Session is everything a single run needs. The caller owns it; nothing is
// kept between runs.
type Session struct {
	Path     string
	Format   string
	Mode     importer.Mode
	Encoding string
	// Location is the zone the civil dates and times are interpreted in.
	// Defaults to Europe/Berlin.
	Location  *time.Location
	Lookup    submitter.ProjectLookup
	Lister    ProjectLister
	Submitter submitter.Submitter
	// DryRun stops after membership validation.
	DryRun bool
	Logger *log.Logger
}

type Result struct {
	Batch      worklog.Batch
	StatusCode int
	Submitted  bool
}

// Run executes every stage in order and returns the first failure unchanged.
func Run(ctx context.Context, session Session) (*Result, error) {
	logger := loggerFor(session)
	if session.Lookup == nil {
		return nil, errMissingCollaborator("project lookup")
	}
	if !session.DryRun && session.Submitter == nil {
		return nil, errMissingCollaborator("submitter")
	}

	result, err := local(ctx, session, true)
	if err != nil {
		return result, err
	}

	if err := submitter.ValidateAll(ctx, session.Lookup, result.Batch.Resolved); err != nil {
		return result, err
	}
	logger.Debug("membership validated", "entries", len(result.Batch.Resolved))

	if session.DryRun {
		logger.Info("dry run, nothing submitted", "entries", len(result.Batch.Resolved))
		return result, nil
	}

	status, err := submitter.Submit(ctx, session.Submitter, result.Batch.Resolved)
	result.StatusCode = status
	if err != nil {
		return result, err
	}
	result.Submitted = true
	logger.Info("working times submitted", "entries", len(result.Batch.Resolved), "status", status)
	return result, nil
}

// Local runs parsing, duplicate detection, conversion and overlap detection
// only. In name mode project names are resolved when a Lister is set and
// left unresolved otherwise.
func Local(ctx context.Context, session Session) (*Result, error) {
	return local(ctx, session, false)
}

func local(ctx context.Context, session Session, requireNumbers bool) (*Result, error) {
	logger := loggerFor(session)
	result := &Result{Batch: worklog.Batch{Source: session.Path}}

	raw, err := importer.Parse(session.Path, importer.ParseOptions{
		Format:   session.Format,
		Mode:     session.Mode,
		Encoding: session.Encoding,
	})
	if err != nil {
		return result, err
	}
	result.Batch.Raw = raw
	logger.Debug("file parsed", "path", session.Path, "rows", len(raw))

	if duplicates := classify.FindDuplicates(raw); len(duplicates) > 0 {
		return result, &worklog.DuplicateEntryError{Entry: duplicates[0]}
	}

	loc := session.Location
	if loc == nil {
		loc, err = timeutil.LoadLocation("")
		if err != nil {
			return result, err
		}
	}

	var projects map[string]hrworks.Project
	if session.Mode == importer.ModeName && (requireNumbers || session.Lister != nil) {
		if session.Lister == nil {
			return result, errMissingCollaborator("project lister")
		}
		projects, err = listProjectsByName(ctx, session.Lister)
		if err != nil {
			return result, err
		}
		logger.Debug("projects listed", "count", len(projects))
	}

	resolved := make([]worklog.ResolvedEntry, 0, len(raw))
	for _, entry := range raw {
		next, err := resolve(entry, session.Mode, projects, loc)
		if err != nil {
			return result, err
		}
		resolved = append(resolved, next)
	}
	result.Batch.Resolved = resolved
	logger.Debug("entries converted", "entries", len(resolved), "timezone", loc.String())

	if pairs := classify.FindOverlaps(resolved); len(pairs) > 0 {
		return result, &worklog.OverlappingEntriesError{First: pairs[0].First, Second: pairs[0].Second, Count: len(pairs)}
	}
	return result, nil
}

// resolve converts one raw entry. projects is nil when names stay unresolved.
func resolve(entry worklog.RawEntry, mode importer.Mode, projects map[string]hrworks.Project, loc *time.Location) (worklog.ResolvedEntry, error) {
	out := worklog.ResolvedEntry{
		RowNumber:    entry.RowNumber,
		PersonNumber: entry.PersonNumber,
		ProjectName:  entry.ProjectName,
	}

	if mode == importer.ModeName {
		if projects != nil {
			project, ok := projects[strings.TrimSpace(entry.ProjectName)]
			if !ok {
				return worklog.ResolvedEntry{}, &worklog.ProjectNotFoundError{Row: entry.RowNumber, Name: entry.ProjectName}
			}
			out.ProjectNumber = int64(project.Number)
		}
	} else {
		number, err := strconv.ParseInt(strings.TrimSpace(entry.ProjectNumber), 10, 64)
		if err != nil || number <= 0 {
			return worklog.ResolvedEntry{}, &worklog.ProjectReferenceError{Row: entry.RowNumber, Value: entry.ProjectNumber}
		}
		out.ProjectNumber = number
	}

	date, err := timeutil.ParseDate(entry.Date)
	if err != nil {
		return worklog.ResolvedEntry{}, parseError(entry.RowNumber, err)
	}
	start, err := timeutil.ParseClock(entry.StartTime)
	if err != nil {
		return worklog.ResolvedEntry{}, parseError(entry.RowNumber, err)
	}
	end, err := timeutil.ParseClock(entry.EndTime)
	if err != nil {
		return worklog.ResolvedEntry{}, parseError(entry.RowNumber, err)
	}

	out.Begin = timeutil.CivilToUTC(date, start, loc)
	out.End = timeutil.CivilToUTC(date, end, loc)
	if !out.Begin.Before(out.End) {
		return worklog.ResolvedEntry{}, &worklog.InvalidIntervalError{Entry: out}
	}
	return out, nil
}

func listProjectsByName(ctx context.Context, lister ProjectLister) (map[string]hrworks.Project, error) {
	projects, err := lister.ListProjects(ctx)
	if err != nil {
		return nil, &worklog.LookupError{Err: err}
	}
	byName := make(map[string]hrworks.Project, len(projects))
	for _, project := range projects {
		name := strings.TrimSpace(project.Name)
		if _, exists := byName[name]; exists {
			continue
		}
		byName[name] = project
	}
	return byName, nil
}

func parseError(row int, err error) error {
	var parseErr *timeutil.ParseError
	if errors.As(err, &parseErr) {
		return &worklog.DateTimeParseError{Row: row, Value: parseErr.Value, Pattern: parseErr.Pattern, Err: err}
	}
	return &worklog.DateTimeParseError{Row: row, Err: err}
}

func errMissingCollaborator(name string) error {
	return fmt.Errorf("pipeline session has no %s configured", name)
}

func loggerFor(session Session) *log.Logger {
	if session.Logger != nil {
		return session.Logger
	}
	return logging.Discard()
}
