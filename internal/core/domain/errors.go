package domain

import "errors"

var (
	ErrForbidden = errors.New("access forbidden")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")

	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")

	ErrReviewNotFound = errors.New("review not found or unauthorized")
	ErrReviewExists   = errors.New("you have already reviewed this product")
	ErrInvalidReview  = errors.New("invalid review")

	ErrNoImages           = errors.New("no images provided")
	ErrTooManyImages      = errors.New("maximum 4 images allowed")
	ErrUnsupportedImage   = errors.New("unsupported image type")
	ErrStorageUnavailable = errors.New("image storage is not configured")
)
