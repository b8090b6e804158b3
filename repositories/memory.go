package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"citysync-be/apperrors"
	"citysync-be/models"
)

// In-memory repositories mirror the Mongo semantics behind a mutex. They back
// the test suites and let the service layer run without a database.

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if identifiersCollide(user.Email, user.Phone, existing.Email, existing.Phone) {
			return apperrors.ErrDuplicateIdentifier
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("Citizen")
	}
	return &user, nil
}

func (r *MemoryUserRepository) FindByIdentifier(_ context.Context, email, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if matchesIdentifier(user.Email, user.Phone, email, phone) {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("Citizen")
}

type MemoryEmployeeRepository struct {
	mu        sync.Mutex
	employees map[primitive.ObjectID]models.Employee
}

func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{employees: make(map[primitive.ObjectID]models.Employee)}
}

func (r *MemoryEmployeeRepository) Create(_ context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.employees {
		if identifiersCollide(employee.Email, employee.Phone, existing.Email, existing.Phone) {
			return apperrors.ErrDuplicateIdentifier
		}
	}

	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	r.employees[employee.ID] = *employee
	return nil
}

func (r *MemoryEmployeeRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.employees[id]
	if !ok {
		return nil, apperrors.NotFound("Employee")
	}
	return &employee, nil
}

func (r *MemoryEmployeeRepository) FindByIdentifier(_ context.Context, email, phone, department string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, employee := range r.employees {
		if !matchesIdentifier(employee.Email, employee.Phone, email, phone) {
			continue
		}
		if department != "" && employee.Department != department {
			continue
		}
		e := employee
		return &e, nil
	}
	return nil, apperrors.NotFound("Employee")
}

func (r *MemoryEmployeeRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.employees)), nil
}

type MemoryIssueRepository struct {
	mu     sync.Mutex
	issues map[primitive.ObjectID]models.Issue
}

func NewMemoryIssueRepository() *MemoryIssueRepository {
	return &MemoryIssueRepository{issues: make(map[primitive.ObjectID]models.Issue)}
}

func (r *MemoryIssueRepository) Create(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	r.issues[issue.ID] = *issue
	return nil
}

func (r *MemoryIssueRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[id]
	if !ok {
		return nil, apperrors.NotFound("Issue")
	}
	return &issue, nil
}

func (r *MemoryIssueRepository) List(_ context.Context, category string) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issues := []models.Issue{}
	for _, issue := range r.issues {
		if category != "" && string(issue.Category) != category {
			continue
		}
		issues = append(issues, issue)
	}
	sortNewestFirst(issues)
	return issues, nil
}

func (r *MemoryIssueRepository) ListByAssignee(_ context.Context, employeeID primitive.ObjectID) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issues := []models.Issue{}
	for _, issue := range r.issues {
		if issue.AssignedTo != nil && *issue.AssignedTo == employeeID {
			issues = append(issues, issue)
		}
	}
	sortNewestFirst(issues)
	return issues, nil
}

func (r *MemoryIssueRepository) Assign(_ context.Context, issueID, employeeID primitive.ObjectID) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[issueID]
	if !ok {
		return nil, apperrors.NotFound("Issue")
	}
	if issue.AssignedTo != nil && *issue.AssignedTo == employeeID {
		return nil, apperrors.ErrAlreadyAssigned
	}

	assignee := employeeID
	issue.Assigned = true
	issue.AssignedTo = &assignee
	issue.UpdatedAt = time.Now()
	r.issues[issueID] = issue
	return &issue, nil
}

func (r *MemoryIssueRepository) UpdateStatus(_ context.Context, issueID primitive.ObjectID, status models.IssueStatus) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[issueID]
	if !ok {
		return nil, apperrors.NotFound("Issue")
	}

	issue.Status = status
	issue.UpdatedAt = time.Now()
	r.issues[issueID] = issue
	return &issue, nil
}

// identifiersCollide implements sparse uniqueness: only identifiers both
// sides actually carry can collide.
func identifiersCollide(email, phone, otherEmail, otherPhone *string) bool {
	if email != nil && otherEmail != nil && *email == *otherEmail {
		return true
	}
	if phone != nil && otherPhone != nil && *phone == *otherPhone {
		return true
	}
	return false
}

func matchesIdentifier(accountEmail, accountPhone *string, email, phone string) bool {
	if email != "" && accountEmail != nil && *accountEmail == email {
		return true
	}
	if phone != "" && accountPhone != nil && *accountPhone == phone {
		return true
	}
	return false
}

func sortNewestFirst(issues []models.Issue) {
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
}
