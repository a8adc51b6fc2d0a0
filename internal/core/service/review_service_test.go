package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

type stubReviewRepo struct {
	byID   map[string]*domain.Review
	nextID int
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{byID: make(map[string]*domain.Review)}
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	r.nextID++
	rv.ID = fmt.Sprintf("r%d", r.nextID)
	clone := *rv
	r.byID[rv.ID] = &clone
	return nil
}

func (r *stubReviewRepo) FindByUserAndProduct(_ context.Context, userID, productID string) (*domain.Review, error) {
	for _, rv := range r.byID {
		if rv.UserID == userID && rv.ProductID == productID {
			clone := *rv
			return &clone, nil
		}
	}
	return nil, domain.ErrReviewNotFound
}

func (r *stubReviewRepo) ListByProduct(_ context.Context, productID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, rv := range r.byID {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *stubReviewRepo) UpdateOwned(_ context.Context, id, userID string, patch ports.ReviewPatch) (*domain.Review, error) {
	rv, ok := r.byID[id]
	if !ok || rv.UserID != userID {
		return nil, domain.ErrReviewNotFound
	}
	if patch.Rating != nil {
		rv.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		rv.Comment = *patch.Comment
	}
	clone := *rv
	return &clone, nil
}

func (r *stubReviewRepo) DeleteOwned(_ context.Context, id, userID string) error {
	rv, ok := r.byID[id]
	if !ok || rv.UserID != userID {
		return domain.ErrReviewNotFound
	}
	delete(r.byID, id)
	return nil
}

func newReviewFixture(t *testing.T) (*ReviewService, *stubReviewRepo, string) {
	t.Helper()
	products := newStubProductRepo()
	p := &domain.Product{Name: "Blue Dream", Category: domain.CategoryFlowers}
	if err := products.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	repo := newStubReviewRepo()
	return NewReviewService(repo, products, zerolog.Nop()), repo, p.ID
}

func TestReviewService_Create(t *testing.T) {
	svc, _, productID := newReviewFixture(t)

	r, err := svc.Create(context.Background(), ports.CreateReviewInput{
		ProductID: productID, UserID: "u1", UserName: "Alice", Rating: 5, Comment: "  great  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Comment != "great" {
		t.Errorf("Comment = %q, want trimmed", r.Comment)
	}
	if r.ID == "" {
		t.Error("expected id to be assigned")
	}
}

func TestReviewService_Create_OncePerUser(t *testing.T) {
	svc, _, productID := newReviewFixture(t)
	in := ports.CreateReviewInput{ProductID: productID, UserID: "u1", Rating: 4}

	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
	in.UserID = "u2"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("other user should be able to review: %v", err)
	}
}

func TestReviewService_Create_RatingBounds(t *testing.T) {
	svc, _, productID := newReviewFixture(t)
	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), ports.CreateReviewInput{ProductID: productID, UserID: "u1", Rating: rating})
		if !errors.Is(err, domain.ErrInvalidReview) {
			t.Errorf("rating %d: expected ErrInvalidReview, got %v", rating, err)
		}
	}
}

func TestReviewService_Create_UnknownProduct(t *testing.T) {
	svc, _, _ := newReviewFixture(t)
	_, err := svc.Create(context.Background(), ports.CreateReviewInput{ProductID: "nope", UserID: "u1", Rating: 3})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReviewService_UpdateAndDelete_OwnerOnly(t *testing.T) {
	svc, repo, productID := newReviewFixture(t)
	r, _ := svc.Create(context.Background(), ports.CreateReviewInput{ProductID: productID, UserID: "u1", Rating: 3})

	rating := 1
	if _, err := svc.Update(context.Background(), ports.UpdateReviewInput{ID: r.ID, UserID: "u2", Rating: &rating}); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("foreign update: expected ErrReviewNotFound, got %v", err)
	}
	updated, err := svc.Update(context.Background(), ports.UpdateReviewInput{ID: r.ID, UserID: "u1", Rating: &rating})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Rating != 1 {
		t.Errorf("Rating = %d, want 1", updated.Rating)
	}

	bad := 9
	if _, err := svc.Update(context.Background(), ports.UpdateReviewInput{ID: r.ID, UserID: "u1", Rating: &bad}); !errors.Is(err, domain.ErrInvalidReview) {
		t.Fatalf("expected ErrInvalidReview, got %v", err)
	}

	if err := svc.Delete(context.Background(), r.ID, "u2"); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("foreign delete: expected ErrReviewNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), r.ID, "u1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Error("review should be gone")
	}
}

func TestReviewService_ListByProduct_RequiresID(t *testing.T) {
	svc, _, _ := newReviewFixture(t)
	if _, err := svc.ListByProduct(context.Background(), ""); !errors.Is(err, domain.ErrInvalidReview) {
		t.Fatalf("expected ErrInvalidReview, got %v", err)
	}
}
