package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"citysync-be/models"
)

// UserRepository persists citizen accounts. Create fails with
// apperrors.ErrDuplicateIdentifier when email or phone is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIdentifier(ctx context.Context, email, phone string) (*models.User, error)
}

// EmployeeRepository persists employee accounts. Identifier lookups may be
// scoped to a department; an empty department matches any.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindByIdentifier(ctx context.Context, email, phone, department string) (*models.Employee, error)
	Count(ctx context.Context) (int64, error)
}

// IssueRepository persists issues and their assignment state. Assign applies
// the assignment as a single conditional write: it fails with
// apperrors.ErrAlreadyAssigned when the issue already carries employeeID as
// its assignee, and otherwise overwrites any previous assignee.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	List(ctx context.Context, category string) ([]models.Issue, error)
	ListByAssignee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Issue, error)
	Assign(ctx context.Context, issueID, employeeID primitive.ObjectID) (*models.Issue, error)
	UpdateStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus) (*models.Issue, error)
}
