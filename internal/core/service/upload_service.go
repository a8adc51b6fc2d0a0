package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

const MaxImagesPerUpload = 4

type UploadService struct {
	store  ports.ImageStore
	folder string
	logger zerolog.Logger
}

// NewUploadService returns a service that writes under folder. A nil store
// makes every upload fail with ErrStorageUnavailable.
func NewUploadService(store ports.ImageStore, folder string, logger zerolog.Logger) *UploadService {
	return &UploadService{store: store, folder: folder, logger: logger}
}

// UploadImages sniffs each file, rejects anything that is not an image and
// uploads the rest concurrently. URLs come back in input order.
func (s *UploadService) UploadImages(ctx context.Context, images []ports.ImageUpload) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrStorageUnavailable
	}
	if len(images) == 0 {
		return nil, domain.ErrNoImages
	}
	if len(images) > MaxImagesPerUpload {
		return nil, domain.ErrTooManyImages
	}

	types := make([]*mimetype.MIME, len(images))
	for i, img := range images {
		mt := mimetype.Detect(img.Data)
		if !strings.HasPrefix(mt.String(), "image/") {
			return nil, fmt.Errorf("%w: %s is %s", domain.ErrUnsupportedImage, img.Filename, mt.String())
		}
		types[i] = mt
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			key := path.Join(s.folder, uuid.NewString()+types[i].Extension())
			url, err := s.store.Put(gctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), types[i].String())
			if err != nil {
				return fmt.Errorf("upload %s: %w", img.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("image upload failed")
		return nil, err
	}

	s.logger.Info().Int("count", len(urls)).Msg("images uploaded")
	return urls, nil
}
