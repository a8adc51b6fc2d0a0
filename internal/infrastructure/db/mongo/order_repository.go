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

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type mongoOrderItem struct {
	ProductID int64                `bson:"product_id"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	Image     string               `bson:"image,omitempty"`
}

type mongoOrder struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Number         string               `bson:"number"`
	UserID         string               `bson:"user_id"`
	Items          []mongoOrderItem     `bson:"items"`
	Subtotal       primitive.Decimal128 `bson:"subtotal"`
	Tax            primitive.Decimal128 `bson:"tax"`
	Total          primitive.Decimal128 `bson:"total"`
	Status         string               `bson:"status"`
	IdempotencyKey string               `bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	doc, err := orderDoc(o)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid.Hex()
	}
	return nil
}

// FindByIdempotencyKey retrieves the order userID placed with the given key.
// Keys are scoped per user.
func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoOrder
	err := r.col.FindOne(ctx, idempotencyFilter(userID, key)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func idempotencyFilter(userID, key string) bson.M {
	return bson.M{"user_id": userID, "idempotency_key": key}
}

// List returns orders newest first. An empty userID lists every order.
func (r *OrderRepository) List(ctx context.Context, userID string) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoOrder
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Idempotency keys are unique per user; orders without a key are not indexed.
	idempotencyIndex := options.Index().
		SetName("user_idempotency_key").
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$exists": true}})

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "idempotency_key", Value: 1}}, Options: idempotencyIndex},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func orderDoc(o *domain.Order) (*mongoOrder, error) {
	doc := &mongoOrder{
		Number:         o.Number,
		UserID:         o.UserID,
		Items:          make([]mongoOrderItem, 0, len(o.Items)),
		Status:         string(o.Status),
		IdempotencyKey: o.IdempotencyKey,
		CreatedAt:      o.CreatedAt,
	}
	var err error
	for _, it := range o.Items {
		price, perr := toDecimal128(it.Price)
		if perr != nil {
			return nil, perr
		}
		doc.Items = append(doc.Items, mongoOrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	if doc.Subtotal, err = toDecimal128(o.Subtotal); err != nil {
		return nil, err
	}
	if doc.Tax, err = toDecimal128(o.Tax); err != nil {
		return nil, err
	}
	if doc.Total, err = toDecimal128(o.Total); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d mongoOrder) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     fromDecimal128(it.Price),
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	return &domain.Order{
		ID:             d.ID.Hex(),
		Number:         d.Number,
		UserID:         d.UserID,
		Items:          items,
		Subtotal:       fromDecimal128(d.Subtotal),
		Tax:            fromDecimal128(d.Tax),
		Total:          fromDecimal128(d.Total),
		Status:         domain.OrderStatus(d.Status),
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      d.CreatedAt,
	}
}
