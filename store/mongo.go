package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"clientconnect-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CustomersCollection = "customers"
	UsersCollection     = "users"
)

// MongoCustomerStore keeps one document per customer with the opportunities
// embedded as an array. Appends use $push and updates use the positional
// operator, so each mutation is a single atomic document write.
type MongoCustomerStore struct {
	coll *mongo.Collection
}

// NewMongoCustomerStore creates a customer store on the customers collection.
func NewMongoCustomerStore(db *mongo.Database) *MongoCustomerStore {
	return &MongoCustomerStore{coll: db.Collection(CustomersCollection)}
}

// EnsureIndexes creates the indexes the store relies on.
func (s *MongoCustomerStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "opportunities.id", Value: 1}}},
	})
	if err != nil {
		return models.ErrStorageWithCause("failed to create customer indexes", err)
	}
	return nil
}

func (s *MongoCustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, models.ErrStorageWithCause("failed to list customers", err)
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, models.ErrStorageWithCause("failed to decode customers", err)
	}
	for i := range customers {
		customers[i].Normalize()
	}
	return customers, nil
}

func (s *MongoCustomerStore) Get(ctx context.Context, id string) (*models.Customer, error) {
	id, err := canonicalCustomerID(id)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&customer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, customerNotFound(id)
		}
		return nil, models.ErrStorageWithCause("failed to get customer", err)
	}
	customer.Normalize()
	return &customer, nil
}

func (s *MongoCustomerStore) Create(ctx context.Context, customer *models.Customer) error {
	id, err := canonicalCustomerID(customer.ID)
	if err != nil {
		return err
	}
	customer.ID = id
	customer.Normalize()
	if _, err := s.coll.InsertOne(ctx, customer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrConflictWithMsg("customer id already exists")
		}
		return models.ErrStorageWithCause("failed to create customer", err)
	}
	return nil
}

func (s *MongoCustomerStore) UpdateStatus(ctx context.Context, id, status string) (*models.Customer, error) {
	id, err := canonicalCustomerID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var customer models.Customer
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&customer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, customerNotFound(id)
		}
		return nil, models.ErrStorageWithCause("failed to update customer status", err)
	}
	customer.Normalize()
	return &customer, nil
}

func (s *MongoCustomerStore) AppendOpportunity(ctx context.Context, customerID string, opp models.Opportunity) error {
	customerID, err := canonicalCustomerID(customerID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{"opportunities": opp},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": customerID}, update)
	if err != nil {
		return models.ErrStorageWithCause("failed to add opportunity", err)
	}
	if result.MatchedCount == 0 {
		return customerNotFound(customerID)
	}
	return nil
}

func (s *MongoCustomerStore) UpdateOpportunity(ctx context.Context, customerID, opportunityID string, patch models.OpportunityPatch) (*models.Opportunity, error) {
	customerID, err := canonicalCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	if !patch.IsEmpty() {
		set := bson.M{"updatedAt": time.Now()}
		if patch.Name != nil {
			set["opportunities.$.name"] = *patch.Name
		}
		if patch.Status != nil {
			set["opportunities.$.status"] = *patch.Status
		}

		filter := bson.M{"_id": customerID, "opportunities.id": opportunityID}
		result, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
		if err != nil {
			return nil, models.ErrStorageWithCause("failed to update opportunity", err)
		}
		if result.MatchedCount == 0 {
			// Tell a missing customer apart from a missing opportunity.
			if _, err := s.Get(ctx, customerID); err != nil {
				return nil, err
			}
			return nil, opportunityNotFound(customerID, opportunityID)
		}
	}

	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	idx := customer.FindOpportunity(opportunityID)
	if idx < 0 {
		return nil, opportunityNotFound(customerID, opportunityID)
	}
	updated := customer.Opportunities[idx]
	return &updated, nil
}

func (s *MongoCustomerStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, models.ErrStorageWithCause("failed to count customers", err)
	}
	return n, nil
}

func (s *MongoCustomerStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// MongoUserStore persists users in the users collection with a unique email
// index.
type MongoUserStore struct {
	coll *mongo.Collection
}

// NewMongoUserStore creates a user store on the users collection.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique email index and the sparse unique
// username index.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return models.ErrStorageWithCause("failed to create user indexes", err)
	}
	return nil
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "username_1") {
				return usernameTaken()
			}
			return emailTaken()
		}
		return models.ErrStorageWithCause("failed to create user", err)
	}
	return nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userNotFound()
		}
		return nil, models.ErrStorageWithCause("failed to find user", err)
	}
	return &user, nil
}

func (s *MongoUserStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return models.ErrStorageWithCause("failed to update last login", err)
	}
	if result.MatchedCount == 0 {
		return userNotFound()
	}
	return nil
}
