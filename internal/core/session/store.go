// Package session holds who is using the storefront right now and what is in
// their cart. A Store is the single source of truth for one session; every
// mutation is applied in memory first and then written through to a Bridge.
//
// The in-memory state is authoritative. A failed write is reported to the
// caller wrapped in ErrPersistenceWriteFailed but never rolls the state back.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

var (
	// ErrInvalidArgument is returned for malformed input; state is unchanged.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPersistenceWriteFailed wraps bridge write/delete failures. Non-fatal.
	ErrPersistenceWriteFailed = errors.New("session persistence write failed")
	// ErrPersistenceReadCorrupt marks a persisted blob that could not be
	// decoded at startup. It is logged and treated as absence, never returned.
	ErrPersistenceReadCorrupt = errors.New("session persistence blob corrupt")
)

// LoadResult describes what was found for one key at startup.
type LoadResult string

const (
	LoadFound   LoadResult = "found"
	LoadAbsent  LoadResult = "absent"
	LoadCorrupt LoadResult = "corrupt"
	LoadFailed  LoadResult = "failed"
)

// LoadReport records the outcome of the startup read of both keys.
type LoadReport struct {
	User LoadResult
	Cart LoadResult
}

// Snapshot is a read model of a store. Derived values are computed when the
// snapshot is taken.
type Snapshot struct {
	User            *domain.Identity  `json:"user"`
	Cart            []domain.CartItem `json:"cart"`
	IsAuthenticated bool              `json:"isAuthenticated"`
	IsAdmin         bool              `json:"isAdmin"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	ItemCount       int               `json:"itemCount"`
}

// Store is the state container for a single session.
type Store struct {
	mu     sync.Mutex
	bridge Bridge
	log    zerolog.Logger

	user   *domain.Identity
	cart   []domain.CartItem
	report LoadReport

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObsID int
}

// Load builds a Store from whatever bridge holds. Missing or malformed blobs
// degrade to an anonymous session with an empty cart.
func Load(ctx context.Context, bridge Bridge, log zerolog.Logger) *Store {
	s := &Store{
		bridge:    bridge,
		log:       log,
		cart:      []domain.CartItem{},
		observers: make(map[int]func(Snapshot)),
	}
	s.report.User = s.loadUser(ctx)
	s.report.Cart = s.loadCart(ctx)
	return s
}

func (s *Store) loadUser(ctx context.Context) LoadResult {
	raw, ok, err := s.bridge.Read(ctx, KeyUser)
	if err != nil {
		s.log.Warn().Err(err).Str("key", KeyUser).Msg("session read failed, starting anonymous")
		return LoadFailed
	}
	if !ok || len(raw) == 0 {
		return LoadAbsent
	}

	var u *domain.Identity
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn().Err(fmt.Errorf("%w: %w", ErrPersistenceReadCorrupt, err)).Str("key", KeyUser).Msg("discarding persisted user")
		return LoadCorrupt
	}
	if u == nil {
		return LoadAbsent
	}
	if u.ID == "" || !domain.ValidRole(u.Role) {
		s.log.Warn().Err(ErrPersistenceReadCorrupt).Str("key", KeyUser).Str("role", u.Role).Msg("discarding persisted user")
		return LoadCorrupt
	}
	s.user = u
	return LoadFound
}

func (s *Store) loadCart(ctx context.Context) LoadResult {
	raw, ok, err := s.bridge.Read(ctx, KeyCart)
	if err != nil {
		s.log.Warn().Err(err).Str("key", KeyCart).Msg("session read failed, starting with empty cart")
		return LoadFailed
	}
	if !ok || len(raw) == 0 {
		return LoadAbsent
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn().Err(fmt.Errorf("%w: %w", ErrPersistenceReadCorrupt, err)).Str("key", KeyCart).Msg("discarding persisted cart")
		return LoadCorrupt
	}
	s.cart = normalize(items)
	if len(s.cart) != len(items) {
		s.log.Warn().Int("persisted", len(items)).Int("kept", len(s.cart)).Msg("persisted cart normalized")
	}
	return LoadFound
}

// normalize restores the one-line-per-id invariant and drops non-positive
// quantities, keeping first-seen order.
func normalize(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if i, ok := index[it.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// LoadReport returns what the startup read found.
func (s *Store) LoadReport() LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// User returns the current identity, if any.
func (s *Store) User() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.Identity{}, false
	}
	return *s.user, true
}

// Cart returns a copy of the cart lines in insertion order.
func (s *Store) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartCopy()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin()
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Subtotal(s.cart)
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ItemCount(s.cart)
}

// Snapshot returns the full read model.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() Snapshot {
	snap := Snapshot{
		Cart:      s.cartCopy(),
		Subtotal:  domain.Subtotal(s.cart),
		ItemCount: domain.ItemCount(s.cart),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
		snap.IsAuthenticated = true
		snap.IsAdmin = u.IsAdmin()
	}
	return snap
}

func (s *Store) cartCopy() []domain.CartItem {
	out := make([]domain.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// Login replaces the current identity. The caller has already authenticated
// the user; the cart is not touched.
func (s *Store) Login(ctx context.Context, u domain.Identity) error {
	if !domain.ValidRole(u.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, u.Role)
	}

	s.mu.Lock()
	s.user = &u
	err := s.writeUser(ctx)
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// Logout clears the identity and the cart. Cart contents belong to the
// session, not the account, so nothing carries over to the next login.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.cart = []domain.CartItem{}
	var err error
	if delErr := s.bridge.Delete(ctx, KeyUser); delErr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: delete %s: %w", ErrPersistenceWriteFailed, KeyUser, delErr))
	}
	err = multierr.Append(err, s.writeCart(ctx))
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// AddToCart merges item into the line with the same id, or appends it.
// Only the quantity of an existing line changes.
func (s *Store) AddToCart(ctx context.Context, item domain.CartItem) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, item.Quantity)
	}

	s.mu.Lock()
	if i := s.indexOf(item.ID); i >= 0 {
		s.cart[i].Quantity += item.Quantity
	} else {
		s.cart = append(s.cart, item)
	}
	err := s.writeCart(ctx)
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// RemoveFromCart drops the line with id. Removing an absent id is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, id int64) error {
	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
	}
	err := s.writeCart(ctx)
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// UpdateCartItemQuantity sets the quantity of the line with id. A quantity of
// zero or less removes the line. Updating an absent id is a no-op.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) error {
	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		if quantity <= 0 {
			s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
		} else {
			s.cart[i].Quantity = quantity
		}
	}
	err := s.writeCart(ctx)
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// RemoveOrdered takes ordered lines out of the cart: each line's quantity is
// subtracted from the cart line with the same id, and lines that reach zero
// are dropped. Lines added or raised since the order was taken stay.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []domain.CartItem) error {
	s.mu.Lock()
	for _, o := range ordered {
		i := s.indexOf(o.ID)
		if i < 0 || o.Quantity <= 0 {
			continue
		}
		if s.cart[i].Quantity > o.Quantity {
			s.cart[i].Quantity -= o.Quantity
		} else {
			s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
		}
	}
	err := s.writeCart(ctx)
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	s.cart = []domain.CartItem{}
	err := s.writeCart(ctx)
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

func (s *Store) indexOf(id int64) int {
	for i := range s.cart {
		if s.cart[i].ID == id {
			return i
		}
	}
	return -1
}

// writeUser and writeCart must be called with mu held so writes reach the
// bridge in mutation order.
func (s *Store) writeUser(ctx context.Context) error {
	return s.write(ctx, KeyUser, s.user)
}

func (s *Store) writeCart(ctx context.Context) error {
	return s.write(ctx, KeyCart, s.cart)
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersistenceWriteFailed, key, err)
	}
	if err := s.bridge.Write(ctx, key, raw); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("session write-through failed")
		return fmt.Errorf("%w: write %s: %w", ErrPersistenceWriteFailed, key, err)
	}
	return nil
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(snap Snapshot) {
	s.obsMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
