package mockapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMongoTimeout = 10 * time.Second
	usersCollection     = "users"
	ordersCollection    = "orders"
)

// MongoConfig captures the settings required to reach MongoDB.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// ConnectMongo establishes a client, verifies it with a ping and returns the
// selected database.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// MongoRepository stores users and orders in two collections.
type MongoRepository struct {
	db     *mongo.Database
	users  *mongo.Collection
	orders *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		db:     db,
		users:  db.Collection(usersCollection),
		orders: db.Collection(ordersCollection),
	}
}

// EnsureIndexes creates the unique username index and the portfolio lookup
// index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	_, err := r.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "portfolio_id", Value: 1}, {Key: "order_time", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("orders index: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	if _, err := r.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *MongoRepository) Update(ctx context.Context, u *User) error {
	res, err := r.users.ReplaceOne(ctx, bson.M{"username": u.Username}, u)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Orders returns an OrderRepository backed by the orders collection.
func (r *MongoRepository) Orders() OrderRepository {
	return mongoOrders{col: r.orders}
}

type mongoOrders struct {
	col *mongo.Collection
}

func (m mongoOrders) Create(ctx context.Context, o *Order) error {
	if _, err := m.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (m mongoOrders) ListByPortfolio(ctx context.Context, portfolioID int64) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_time", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"portfolio_id": portfolioID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := make([]Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
