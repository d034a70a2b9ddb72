package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/model"
)

const (
	mongoDatabase            = "membership"
	mongoCustomersCollection = "customers"
)

type mongoCustomerRepository struct {
	client *mongo.Client
}

// NewMongoCustomerRepository builds customer repository on top of mongodb
func NewMongoCustomerRepository(client *mongo.Client) CustomerRepository {
	return &mongoCustomerRepository{client: client}
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	cursor, err := r.collection().Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]*model.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if _, err := r.collection().InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.NewValidationErr("email", "email is already registered")
		}
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) SetVerified(ctx context.Context, id string, verified bool, at *time.Time) (*model.Customer, error) {
	update := bson.M{"$set": bson.M{"verified": verified}}
	if at != nil {
		update["$set"].(bson.M)["verifiedAt"] = at
	} else {
		update["$unset"] = bson.M{"verifiedAt": ""}
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *mongoCustomerRepository) SetNotes(ctx context.Context, id string, notes string) (*model.Customer, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"notes": notes}})
}

func (r *mongoCustomerRepository) SeedIfEmpty(ctx context.Context, seed []*model.Customer) error {
	// email uniqueness is enforced by the store itself, same as the
	// postgres schema, so concurrent creates cannot slip in a duplicate
	if err := r.ensureEmailIndex(ctx); err != nil {
		return err
	}

	count, err := r.collection().CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	docs := make([]any, 0, len(seed))
	for _, c := range seed {
		docs = append(docs, c)
	}

	if _, err := r.collection().InsertMany(ctx, docs); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) ensureEmailIndex(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := r.collection().Indexes().CreateOne(ctx, index)
	return err
}

func (r *mongoCustomerRepository) findOne(ctx context.Context, filter bson.M) (*model.Customer, error) {
	var c model.Customer
	if err := r.collection().FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *mongoCustomerRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*model.Customer, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c model.Customer
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *mongoCustomerRepository) collection() *mongo.Collection {
	return r.client.Database(mongoDatabase).Collection(mongoCustomersCollection)
}
