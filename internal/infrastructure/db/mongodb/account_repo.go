package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/baechuer/account-service/internal/domain"
)

const collectionName = "users"

type AccountRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAccountRepo(db *mongo.Database) *AccountRepo {
	return &AccountRepo{
		coll: db.Collection(collectionName),
		now:  time.Now,
	}
}

// EnsureIndexes creates lookup indexes. The email index is not unique: uniqueness
// is an application pre-check only.
func (r *AccountRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "verifyToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "forgotPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *AccountRepo) Insert(ctx context.Context, a domain.Account) (domain.Account, error) {
	now := r.now().UTC()
	doc := fromDomain(a)
	doc.ID = bson.NewObjectID()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *AccountRepo) GetBySideToken(ctx context.Context, kind domain.TokenKind, token string) (domain.Account, error) {
	field, ok := sideTokenField(kind)
	if !ok || token == "" {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return r.findOne(ctx, bson.D{{Key: field, Value: token}})
}

func (r *AccountRepo) Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.Account{}, domain.ErrAccountNotFound()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc accountDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, buildUpdate(patch, r.now().UTC()), opts).Decode(&doc)
	if err != nil {
		return domain.Account{}, mapErr(err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepo) Find(ctx context.Context, f domain.AccountFilter) ([]domain.Account, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "password", Value: 0}}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cur, err := r.coll.Find(ctx, buildFilter(f), opts)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	out := make([]domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AccountRepo) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

// findOne returns the oldest matching account.
func (r *AccountRepo) findOne(ctx context.Context, filter bson.D) (domain.Account, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return domain.Account{}, mapErr(err)
	}
	return doc.toDomain(), nil
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrAccountNotFound()
	}
	return domain.ErrDBUnavailable(err)
}
