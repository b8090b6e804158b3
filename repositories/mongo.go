package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"citysync-be/apperrors"
	"citysync-be/models"
)

// identifierFilter builds a lookup matching either identifier; only the ones
// actually supplied participate in the $or.
func identifierFilter(email, phone string) bson.M {
	var or []bson.M
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if phone != "" {
		or = append(or, bson.M{"phone": phone})
	}
	if len(or) == 0 {
		// matches nothing
		return bson.M{"_id": primitive.NilObjectID}
	}
	return bson.M{"$or": or}
}

// duplicateFilter matches existing accounts holding any of the given
// identifiers. Nil identifiers are skipped so absent fields never collide.
func duplicateFilter(email, phone *string) bson.M {
	var or []bson.M
	if email != nil {
		or = append(or, bson.M{"email": *email})
	}
	if phone != nil {
		or = append(or, bson.M{"phone": *phone})
	}
	if len(or) == 0 {
		return bson.M{"_id": primitive.NilObjectID}
	}
	return bson.M{"$or": or}
}

// MongoUserRepository stores citizens in the "users" collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("users")}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	count, err := r.coll.CountDocuments(ctx, duplicateFilter(user.Email, user.Phone))
	if err != nil {
		return apperrors.Internal(err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateIdentifier
	}

	result, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		// the unique index re-checks what the count above raced on
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateIdentifier
		}
		return apperrors.Internal(err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Citizen")
		}
		return nil, apperrors.Internal(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByIdentifier(ctx context.Context, email, phone string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, identifierFilter(email, phone)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Citizen")
		}
		return nil, apperrors.Internal(err)
	}
	return &user, nil
}

// MongoEmployeeRepository stores employees in the "employees" collection.
type MongoEmployeeRepository struct {
	coll *mongo.Collection
}

func NewMongoEmployeeRepository(db *mongo.Database) *MongoEmployeeRepository {
	return &MongoEmployeeRepository{coll: db.Collection("employees")}
}

func (r *MongoEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	count, err := r.coll.CountDocuments(ctx, duplicateFilter(employee.Email, employee.Phone))
	if err != nil {
		return apperrors.Internal(err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateIdentifier
	}

	result, err := r.coll.InsertOne(ctx, employee)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateIdentifier
		}
		return apperrors.Internal(err)
	}
	employee.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoEmployeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Employee")
		}
		return nil, apperrors.Internal(err)
	}
	return &employee, nil
}

func (r *MongoEmployeeRepository) FindByIdentifier(ctx context.Context, email, phone, department string) (*models.Employee, error) {
	filter := identifierFilter(email, phone)
	if department != "" {
		filter = bson.M{"$and": []bson.M{filter, {"department": department}}}
	}

	var employee models.Employee
	err := r.coll.FindOne(ctx, filter).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Employee")
		}
		return nil, apperrors.Internal(err)
	}
	return &employee, nil
}

func (r *MongoEmployeeRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return count, nil
}

// MongoIssueRepository stores issues in the "issues" collection.
type MongoIssueRepository struct {
	coll *mongo.Collection
}

func NewMongoIssueRepository(db *mongo.Database) *MongoIssueRepository {
	return &MongoIssueRepository{coll: db.Collection("issues")}
}

func (r *MongoIssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	result, err := r.coll.InsertOne(ctx, issue)
	if err != nil {
		return apperrors.Internal(err)
	}
	issue.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoIssueRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Issue")
		}
		return nil, apperrors.Internal(err)
	}
	return &issue, nil
}

func (r *MongoIssueRepository) List(ctx context.Context, category string) ([]models.Issue, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, apperrors.Internal(err)
	}
	return issues, nil
}

func (r *MongoIssueRepository) ListByAssignee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"assignedTo": employeeID}, findOptions)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, apperrors.Internal(err)
	}
	return issues, nil
}

// Assign sets the assignee in a single conditional update. The filter
// excludes issues already assigned to employeeID, so the write either lands
// whole or not at all; a concurrent conflicting assign resolves to
// last-writer-wins with the derived assigned flag always in step.
func (r *MongoIssueRepository) Assign(ctx context.Context, issueID, employeeID primitive.ObjectID) (*models.Issue, error) {
	filter := bson.M{
		"_id":        issueID,
		"assignedTo": bson.M{"$ne": employeeID},
	}
	update := bson.M{"$set": bson.M{
		"assigned":   true,
		"assignedTo": employeeID,
		"updatedAt":  time.Now(),
	}}

	var issue models.Issue
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&issue)
	if err == nil {
		return &issue, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Internal(err)
	}

	// No match: either the issue does not exist, or it is already held by
	// this employee. Disambiguate.
	if _, findErr := r.FindByID(ctx, issueID); findErr != nil {
		return nil, findErr
	}
	return nil, apperrors.ErrAlreadyAssigned
}

func (r *MongoIssueRepository) UpdateStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus) (*models.Issue, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}

	var issue models.Issue
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": issueID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Issue")
		}
		return nil, apperrors.Internal(err)
	}
	return &issue, nil
}
