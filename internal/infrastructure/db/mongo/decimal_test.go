package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

func TestDecimal128_KeepsCents(t *testing.T) {
	for _, s := range []string{"0", "19.99", "35.00", "1234567.89"} {
		d := decimal.RequireFromString(s)
		v, err := toDecimal128(d)
		require.NoError(t, err)
		assert.True(t, d.Equal(fromDecimal128(v)), "round trip of %s", s)
	}
}

func TestObjectID_RejectsGarbage(t *testing.T) {
	_, ok := objectID("not-an-id")
	assert.False(t, ok)

	oid := primitive.NewObjectID()
	got, ok := objectID(oid.Hex())
	assert.True(t, ok)
	assert.Equal(t, oid, got)
}

func TestOrderDoc_MapsMoney(t *testing.T) {
	o := &domain.Order{
		Number:   "LF-0000000A",
		UserID:   "u1",
		Items:    []domain.OrderItem{{ProductID: 7, Name: "Pipe", Price: decimal.RequireFromString("19.99"), Quantity: 2}},
		Subtotal: decimal.RequireFromString("39.98"),
		Tax:      decimal.RequireFromString("3.20"),
		Total:    decimal.RequireFromString("43.18"),
		Status:   domain.OrderPending,
	}

	doc, err := orderDoc(o)
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded mongoOrder
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	back := decoded.toDomain()
	assert.Equal(t, "43.18", back.Total.StringFixed(2))
	require.Len(t, back.Items, 1)
	assert.Equal(t, int64(7), back.Items[0].ProductID)
	assert.True(t, back.Items[0].Price.Equal(o.Items[0].Price))
	assert.Empty(t, decoded.IdempotencyKey)
}

type fakeIndexer struct{ err error }

func (f fakeIndexer) EnsureIndexes(context.Context) error { return f.err }

func TestEnsureIndexes_CollectsErrors(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")
	err := EnsureIndexes(context.Background(), fakeIndexer{a}, fakeIndexer{}, fakeIndexer{b})
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)

	assert.NoError(t, EnsureIndexes(context.Background(), fakeIndexer{}))
}

func TestIdempotencyFilter_ScopedToUser(t *testing.T) {
	assert.Equal(t, bson.M{"user_id": "alice", "idempotency_key": "k"}, idempotencyFilter("alice", "k"))
	assert.NotEqual(t, idempotencyFilter("alice", "k"), idempotencyFilter("bob", "k"))
}
