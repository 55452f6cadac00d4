package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-recruitment-tracker/internal/domain"
	"go-recruitment-tracker/pkg/apperror"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type bulkUsecase struct {
	candidateUC domain.CandidateUsecase
}

func NewBulkUsecase(candidateUC domain.CandidateUsecase) domain.BulkUsecase {
	return &bulkUsecase{candidateUC: candidateUC}
}

// Import runs the bulk ingestion pipeline: parse the tabular batch, then
// per row (in original order) coerce, validate, and create the full
// candidate — each creation its own transaction. A failing row is recorded
// and skipped; it never aborts sibling rows. Rows are processed
// sequentially so each row's transaction fully resolves before the next.
func (u *bulkUsecase) Import(ctx context.Context, filename string, content []byte, progress domain.BulkProgressFunc) (*domain.BulkReport, error) {
	started := time.Now()

	records, err := parseTable(filename, content)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("cannot parse file: %v", err))
	}
	if len(records) == 0 {
		return nil, apperror.BadRequest("file is empty: a header row is required")
	}

	cols := columnIndex(records[0])
	data := records[1:]

	report := &domain.BulkReport{
		BatchID: uuid.NewString(),
		Success: []*domain.CandidateAggregate{},
		Failed:  []domain.BulkFailure{},
	}

	for i, record := range data {
		// Header is row 1, so the first data row is row 2.
		rowNum := i + 2

		input := mapRow(cols, record)
		identifier := input.Email
		if identifier == "" {
			identifier = fmt.Sprintf("row-%d", rowNum)
		}

		if missing := missingRequiredFields(input); len(missing) > 0 {
			report.Failed = append(report.Failed, domain.BulkFailure{
				Identifier: identifier,
				Reason:     domain.NewValidationError(missing...).Error(),
			})
		} else if agg, err := u.candidateUC.CreateFullCandidate(ctx, input); err != nil {
			report.Failed = append(report.Failed, domain.BulkFailure{
				Identifier: identifier,
				Reason:     err.Error(),
			})
		} else {
			report.Success = append(report.Success, agg)
		}

		report.TotalProcessed++
		report.SuccessCount = len(report.Success)
		report.FailureCount = len(report.Failed)

		if progress != nil {
			progress(domain.BulkProgress{
				Processed:    report.TotalProcessed,
				Total:        len(data),
				SuccessCount: report.SuccessCount,
				FailureCount: report.FailureCount,
			})
		}
	}

	report.ProcessingTimeMs = time.Since(started).Milliseconds()
	return report, nil
}

// parseTable reads the batch into rows of string cells. XLSX files (by
// extension) go through excelize, first sheet only; everything else is
// treated as CSV.
func parseTable(filename string, content []byte) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// columnIndex maps lower-cased header names to their positions. Matching is
// case-insensitive so firstName / FirstName / firstname all work.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(cols map[string]int, record []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// mapRow coerces one data row into a creation request. Numeric fields are
// default-coerced: missing proficiencyLevel becomes 1, missing
// yearsOfExperience becomes 0, missing isActive means true.
func mapRow(cols map[string]int, record []string) domain.CreateCandidateInput {
	proficiency := 1
	if v, err := strconv.Atoi(cell(cols, record, "proficiencylevel")); err == nil && v > 0 {
		proficiency = v
	}
	years := 0
	if v, err := strconv.Atoi(cell(cols, record, "yearsofexperience")); err == nil && v >= 0 {
		years = v
	}
	isActive := true
	if v, err := strconv.ParseBool(cell(cols, record, "isactive")); err == nil {
		isActive = v
	}

	var skills []string
	if raw := cell(cols, record, "skills"); raw != "" {
		for _, s := range strings.Split(raw, ";") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}

	var requirements *string
	if raw := cell(cols, record, "requirements"); raw != "" {
		requirements = &raw
	}

	return domain.CreateCandidateInput{
		FirstName:   cell(cols, record, "firstname"),
		LastName:    cell(cols, record, "lastname"),
		Email:       cell(cols, record, "email"),
		Phone:       cell(cols, record, "phone"),
		Location:    cell(cols, record, "location"),
		Citizenship: cell(cols, record, "citizenship"),
		Status:      domain.CandidateStatusOpen,
		CandidateSkill: domain.CreateCandidateSkillInput{
			University:        cell(cols, record, "university"),
			Qualification:     cell(cols, record, "qualification"),
			ProficiencyLevel:  proficiency,
			YearsOfExperience: years,
			Skills:            skills,
		},
		JobApplications: []domain.CreateJobApplicationInput{{
			AppliedJob:        domain.AppliedJob(strings.ToUpper(cell(cols, record, "appliedjob"))),
			AppliedJobOther:   cell(cols, record, "appliedjobother"),
			ApplicationStatus: domain.AppliedJobStatusActive,
			IsActive:          &isActive,
			Requirements:      requirements,
		}},
	}
}

// missingRequiredFields performs the pipeline's own required-field check.
// Rows failing it are rejected before the repository is ever touched.
func missingRequiredFields(input domain.CreateCandidateInput) []string {
	var missing []string
	if input.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if input.LastName == "" {
		missing = append(missing, "lastName")
	}
	if input.Email == "" {
		missing = append(missing, "email")
	}
	if input.CandidateSkill.University == "" {
		missing = append(missing, "university")
	}
	if input.CandidateSkill.Qualification == "" {
		missing = append(missing, "qualification")
	}
	if len(input.JobApplications) == 0 || !input.JobApplications[0].AppliedJob.Valid() {
		missing = append(missing, "appliedJob")
	}
	return missing
}
