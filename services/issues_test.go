package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"citysync-be/apperrors"
	"citysync-be/models"
	"citysync-be/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	users     *repositories.MemoryUserRepository
	employees *repositories.MemoryEmployeeRepository
	issues    *repositories.MemoryIssueRepository
	service   *IssueService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:     repositories.NewMemoryUserRepository(),
		employees: repositories.NewMemoryEmployeeRepository(),
		issues:    repositories.NewMemoryIssueRepository(),
	}
	f.service = NewIssueService(f.issues, f.users, f.employees, testLogger())
	return f
}

func (f *fixture) addCitizen(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:      name,
		Email:     &email,
		Password:  "irrelevant",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) addEmployee(t *testing.T, name, email, department string) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		Name:       name,
		Email:      &email,
		Password:   "irrelevant",
		Department: department,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, f.employees.Create(context.Background(), employee))
	return employee
}

func TestReportCreatesPendingUnassignedIssue(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID:   citizen.ID.Hex(),
		Description: "pothole",
		Location:    "Main St",
		Category:    "road",
		ImageURL:    "/uploads/1-pothole.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, models.Pending, issue.Status)
	assert.False(t, issue.Assigned)
	assert.Nil(t, issue.AssignedTo)
	assert.Equal(t, models.IssueCategory("road"), issue.Category)
	assert.Equal(t, citizen.ID, issue.CitizenID)
	assert.False(t, issue.CreatedAt.IsZero())
}

func TestReportDefaultsCategoryToOther(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: citizen.ID.Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Other, issue.Category)
}

func TestReportRequiresImage(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	_, err := f.service.Report(context.Background(), ReportInput{
		CitizenID:   citizen.ID.Hex(),
		Description: "pothole",
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingAttachment)
}

func TestReportUnknownCitizen(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: primitive.NewObjectID().Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestAssignSetsAssigneeOnce(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")
	employee := f.addEmployee(t, "Raj", "raj@city.gov", "road")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: citizen.ID.Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.NoError(t, err)

	assigned, err := f.service.Assign(context.Background(), issue.ID.Hex(), employee.ID.Hex())
	require.NoError(t, err)
	assert.True(t, assigned.Assigned)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, employee.ID, *assigned.AssignedTo)

	// the employee's assigned list is a lookup and holds the issue exactly once
	list, err := f.service.ListByEmployee(context.Background(), employee.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, issue.ID, list[0].ID)

	// same employee again is rejected
	_, err = f.service.Assign(context.Background(), issue.ID.Hex(), employee.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)
}

func TestAssignReassignmentOverwrites(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")
	first := f.addEmployee(t, "Raj", "raj@city.gov", "road")
	second := f.addEmployee(t, "Mira", "mira@city.gov", "water")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: citizen.ID.Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.NoError(t, err)

	_, err = f.service.Assign(context.Background(), issue.ID.Hex(), first.ID.Hex())
	require.NoError(t, err)

	reassigned, err := f.service.Assign(context.Background(), issue.ID.Hex(), second.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, reassigned.AssignedTo)
	assert.Equal(t, second.ID, *reassigned.AssignedTo)
	assert.True(t, reassigned.Assigned)

	// the first employee no longer sees the issue
	list, err := f.service.ListByEmployee(context.Background(), first.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAssignPreconditions(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")
	employee := f.addEmployee(t, "Raj", "raj@city.gov", "road")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: citizen.ID.Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.NoError(t, err)

	_, err = f.service.Assign(context.Background(), primitive.NewObjectID().Hex(), employee.ID.Hex())
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"), "missing issue")

	_, err = f.service.Assign(context.Background(), issue.ID.Hex(), primitive.NewObjectID().Hex())
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"), "missing employee")
}

func TestUpdateStatusAllowsSkippingInProgress(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: citizen.ID.Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateStatus(context.Background(), issue.ID.Hex(), "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.Resolved, updated.Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: citizen.ID.Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), issue.ID.Hex(), "closed")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestStrictStatusFlowForbidsBackwardTransitions(t *testing.T) {
	f := newFixture(t)
	f.service.WithStrictStatusFlow(true)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID: citizen.ID.Hex(),
		ImageURL:  "/uploads/1.jpg",
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), issue.ID.Hex(), "resolved")
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), issue.ID.Hex(), "pending")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestListByCategoryFilters(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	for _, category := range []string{"road", "water", "road"} {
		_, err := f.service.Report(context.Background(), ReportInput{
			CitizenID: citizen.ID.Hex(),
			Category:  category,
			ImageURL:  "/uploads/1.jpg",
		})
		require.NoError(t, err)
	}

	all, err := f.service.ListByCategory(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	roads, err := f.service.ListByCategory(context.Background(), "road")
	require.NoError(t, err)
	assert.Len(t, roads, 2)

	// an unknown label is a legal filter that matches nothing
	none, err := f.service.ListByCategory(context.Background(), "electricity")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// Categories are free text: whatever label the citizen files under is
// stored verbatim, with "Other" only as the default for an absent one.
func TestReportAcceptsFreeFormCategory(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	for _, category := range []string{"road", "Road", "street lighting"} {
		issue, err := f.service.Report(context.Background(), ReportInput{
			CitizenID: citizen.ID.Hex(),
			Category:  category,
			ImageURL:  "/uploads/1.jpg",
		})
		require.NoError(t, err, category)
		assert.Equal(t, models.IssueCategory(category), issue.Category)
	}

	listed, err := f.service.ListByCategory(context.Background(), "street lighting")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestListWithReportersAttachesCitizenDetails(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID:   citizen.ID.Hex(),
		Description: "pothole",
		Category:    "road",
		ImageURL:    "/uploads/1.jpg",
	})
	require.NoError(t, err)

	listed, err := f.service.ListWithReporters(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, issue.ID, listed[0].ID)
	assert.Equal(t, citizen.ID.Hex(), listed[0].Reporter.ID)
	assert.Equal(t, "Ana", listed[0].Reporter.Name)
	require.NotNil(t, listed[0].Reporter.Email)
	assert.Equal(t, "ana@x.com", *listed[0].Reporter.Email)
}

func TestFullLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	citizen := f.addCitizen(t, "Ana", "ana@x.com")
	employee := f.addEmployee(t, "Raj", "raj@city.gov", "road")

	issue, err := f.service.Report(context.Background(), ReportInput{
		CitizenID:   citizen.ID.Hex(),
		Description: "pothole",
		Location:    "Main St",
		Category:    "road",
		ImageURL:    "/uploads/img1.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Pending, issue.Status)
	assert.Equal(t, models.IssueCategory("road"), issue.Category)

	assigned, err := f.service.Assign(context.Background(), issue.ID.Hex(), employee.ID.Hex())
	require.NoError(t, err)
	assert.True(t, assigned.Assigned)

	resolved, err := f.service.UpdateStatus(context.Background(), issue.ID.Hex(), "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.Resolved, resolved.Status)
}
