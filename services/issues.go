package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"citysync-be/apperrors"
	"citysync-be/models"
	"citysync-be/repositories"
)

// ReportInput carries a citizen's issue submission. ImageURL is the address
// returned by the upload collaborator and is required.
type ReportInput struct {
	CitizenID   string
	Description string
	Location    string
	Category    string
	ImageURL    string
}

// IssueService validates and executes issue lifecycle transitions.
type IssueService struct {
	issues    repositories.IssueRepository
	users     repositories.UserRepository
	employees repositories.EmployeeRepository
	logger    *slog.Logger

	// strictStatusFlow rejects backward status transitions
	// (resolved -> pending and the like). Off by default: the status field
	// is written verbatim.
	strictStatusFlow bool
}

func NewIssueService(issues repositories.IssueRepository, users repositories.UserRepository, employees repositories.EmployeeRepository, logger *slog.Logger) *IssueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IssueService{issues: issues, users: users, employees: employees, logger: logger}
}

// WithStrictStatusFlow toggles forward-only status enforcement.
func (s *IssueService) WithStrictStatusFlow(strict bool) *IssueService {
	s.strictStatusFlow = strict
	return s
}

// Report creates a pending, unassigned issue for an existing citizen.
func (s *IssueService) Report(ctx context.Context, input ReportInput) (*models.Issue, error) {
	citizenID, err := parseObjectID(input.CitizenID)
	if err != nil {
		return nil, apperrors.ValidationFailed("citizenId", "is not a valid id")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, apperrors.ErrMissingAttachment
	}

	if _, err := s.users.FindByID(ctx, citizenID); err != nil {
		return nil, err
	}

	category := models.Other
	if input.Category != "" {
		category = models.IssueCategory(input.Category)
	}

	issue := models.Issue{
		CitizenID:   citizenID,
		Description: input.Description,
		Location:    input.Location,
		Category:    category,
		ImageURL:    input.ImageURL,
		Status:      models.Pending,
		Assigned:    false,
		AssignedTo:  nil,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.issues.Create(ctx, &issue); err != nil {
		return nil, err
	}
	s.logger.Info("issue reported", "id", issue.ID.Hex(), "category", issue.Category)
	return &issue, nil
}

// Assign hands an issue to an employee. Re-assigning the same issue to the
// same employee fails; a different employee simply takes it over.
func (s *IssueService) Assign(ctx context.Context, issueID, employeeID string) (*models.Issue, error) {
	issueOID, err := parseObjectID(issueID)
	if err != nil {
		return nil, apperrors.ValidationFailed("issueId", "is not a valid id")
	}
	employeeOID, err := parseObjectID(employeeID)
	if err != nil {
		return nil, apperrors.ValidationFailed("employeeId", "is not a valid id")
	}

	if _, err := s.employees.FindByID(ctx, employeeOID); err != nil {
		return nil, err
	}

	issue, err := s.issues.Assign(ctx, issueOID, employeeOID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("issue assigned", "issue", issue.ID.Hex(), "employee", employeeID)
	return issue, nil
}

// UpdateStatus writes the new status. Unless strict flow is on the value is
// stored verbatim, so pending -> resolved is a legal shortcut.
func (s *IssueService) UpdateStatus(ctx context.Context, issueID, status string) (*models.Issue, error) {
	issueOID, err := parseObjectID(issueID)
	if err != nil {
		return nil, apperrors.ValidationFailed("issueId", "is not a valid id")
	}
	if !models.ValidStatus(status) {
		return nil, apperrors.ValidationFailed("status", "must be pending, in-progress or resolved")
	}

	if s.strictStatusFlow {
		current, err := s.issues.FindByID(ctx, issueOID)
		if err != nil {
			return nil, err
		}
		if statusRank(models.IssueStatus(status)) < statusRank(current.Status) {
			return nil, apperrors.ValidationFailed("status", "cannot move backward from "+string(current.Status))
		}
	}

	issue, err := s.issues.UpdateStatus(ctx, issueOID, models.IssueStatus(status))
	if err != nil {
		return nil, err
	}
	s.logger.Info("issue status updated", "issue", issue.ID.Hex(), "status", issue.Status)
	return issue, nil
}

// Get fetches a single issue by id.
func (s *IssueService) Get(ctx context.Context, issueID string) (*models.Issue, error) {
	issueOID, err := parseObjectID(issueID)
	if err != nil {
		return nil, apperrors.ValidationFailed("issueId", "is not a valid id")
	}
	return s.issues.FindByID(ctx, issueOID)
}

// ListByCategory returns all issues, or those filed under one category.
// Categories are free text, so any filter value is a legal lookup; an
// unknown one just matches nothing.
func (s *IssueService) ListByCategory(ctx context.Context, category string) ([]models.Issue, error) {
	return s.issues.List(ctx, category)
}

// Reporter is the citizen summary attached to issue listings.
type Reporter struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// IssueWithReporter pairs an issue with the contact details of whoever
// filed it.
type IssueWithReporter struct {
	models.Issue
	Reporter Reporter `json:"reporter"`
}

// ListWithReporters returns the filtered issues with each reporter's name
// and contact details attached. A reporter that can no longer be resolved
// degrades to the bare id.
func (s *IssueService) ListWithReporters(ctx context.Context, category string) ([]IssueWithReporter, error) {
	issues, err := s.issues.List(ctx, category)
	if err != nil {
		return nil, err
	}

	enriched := make([]IssueWithReporter, 0, len(issues))
	for _, issue := range issues {
		item := IssueWithReporter{
			Issue:    issue,
			Reporter: Reporter{ID: issue.CitizenID.Hex()},
		}
		if citizen, err := s.users.FindByID(ctx, issue.CitizenID); err == nil {
			item.Reporter.Name = citizen.Name
			item.Reporter.Email = citizen.Email
			item.Reporter.Phone = citizen.Phone
		}
		enriched = append(enriched, item)
	}
	return enriched, nil
}

// ListByEmployee returns the issues currently assigned to an employee. This
// lookup is the authoritative form of the employee's assigned-issues list.
func (s *IssueService) ListByEmployee(ctx context.Context, employeeID string) ([]models.Issue, error) {
	employeeOID, err := parseObjectID(employeeID)
	if err != nil {
		return nil, apperrors.ValidationFailed("employeeId", "is not a valid id")
	}
	if _, err := s.employees.FindByID(ctx, employeeOID); err != nil {
		return nil, err
	}
	return s.issues.ListByAssignee(ctx, employeeOID)
}

func statusRank(status models.IssueStatus) int {
	switch status {
	case models.Pending:
		return 0
	case models.InProgress:
		return 1
	case models.Resolved:
		return 2
	}
	return -1
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}
