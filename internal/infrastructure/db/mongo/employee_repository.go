package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staffdesk/employee-directory/internal/core/domain"
	"github.com/staffdesk/employee-directory/internal/core/ports"
)

const collectionEmployees = "employees"

type EmployeeRepository struct {
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees)}
}

type mongoEmployee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Role       string             `bson:"role"`
	Department string             `bson:"department"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (m mongoEmployee) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:         m.ID.Hex(),
		Name:       m.Name,
		Email:      m.Email,
		Role:       domain.Role(m.Role),
		Department: m.Department,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

// objectID parses a hex identifier. Malformed identifiers cannot match any
// document, so they are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrEmployeeNotFound
	}
	return oid, nil
}

// Create inserts a new employee document.
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEmployee{
		Name:       e.Name,
		Email:      e.Email,
		Role:       string(e.Role),
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmployeeEmailTaken
		}
		return nil, fmt.Errorf("insert employee: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert employee: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// FindByID retrieves an employee by its hex identifier.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEmployee
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns every employee ordered by _id, which follows insertion order.
func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEmployee
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	out := make([]*domain.Employee, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update sets the changed fields in a single findOneAndUpdate guarded by the
// updated_at value the caller read. When the guard does not match, a count on
// _id tells a deleted record apart from one that was modified in the meantime.
func (r *EmployeeRepository) Update(ctx context.Context, id string, changes ports.EmployeeChanges, expectedUpdatedAt time.Time) (*domain.Employee, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.D{}
	if changes.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *changes.Name})
	}
	if changes.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *changes.Email})
	}
	if changes.Role != nil {
		set = append(set, bson.E{Key: "role", Value: string(*changes.Role)})
	}
	if changes.Department != nil {
		set = append(set, bson.E{Key: "department", Value: *changes.Department})
	}
	set = append(set, bson.E{Key: "updated_at", Value: changes.UpdatedAt})

	filter := bson.D{{Key: "_id", Value: oid}, {Key: "updated_at", Value: expectedUpdatedAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoEmployee
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, r.missedUpdate(ctx, oid)
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrEmployeeEmailTaken
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) missedUpdate(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if n == 0 {
		return domain.ErrEmployeeNotFound
	}
	return domain.ErrConcurrentUpdate
}

// Delete removes the employee and returns the document as it was before removal.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEmployee
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("delete employee: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique email index on the employees collection.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, uniqueEmailIndex())
	return err
}
