package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "gorecipe/internal/errors"
	"gorecipe/internal/model"
	"gorecipe/internal/repository"
	"gorecipe/internal/storage"
	"gorecipe/internal/vision"
)

// ImageService orchestrates food image ingestion: validation, storage upload,
// ingredient recognition and persistence.
type ImageService interface {
	Upload(ctx context.Context, userID uint, contentType string, body io.Reader) (*model.FoodImage, error)
	Get(ctx context.Context, storageKey string) (*model.FoodImage, error)
	ListByUser(ctx context.Context, userID uint) ([]model.FoodImage, error)
	Delete(ctx context.Context, storageKey string) error
}

type imageService struct {
	users       repository.UserRepository
	images      repository.FoodImageRepository
	ingredients repository.IngredientRepository
	storage     storage.ObjectStorage
	recognizer  vision.Recognizer
	now         func() time.Time
}

// NewImageService builds an ImageService.
func NewImageService(
	users repository.UserRepository,
	images repository.FoodImageRepository,
	ingredients repository.IngredientRepository,
	objectStorage storage.ObjectStorage,
	recognizer vision.Recognizer,
) ImageService {
	return &imageService{
		users:       users,
		images:      images,
		ingredients: ingredients,
		storage:     objectStorage,
		recognizer:  recognizer,
		now:         time.Now,
	}
}

// Upload validates the owner and content type before any collaborator is
// invoked, stores the bytes, runs recognition on the resulting URL and
// persists the tagged FoodImage. Collaborator failures propagate; nothing is
// partially saved.
func (s *imageService) Upload(ctx context.Context, userID uint, contentType string, body io.Reader) (*model.FoodImage, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	topLevel, subtype, ok := splitContentType(contentType)
	if !ok || topLevel != "image" {
		return nil, apperrors.ErrNotAnImage
	}

	// Key derived from owner, upload time and subtype, e.g. "42-1699999999999.jpeg".
	key := fmt.Sprintf("%d-%d.%s", userID, s.now().UnixMilli(), subtype)

	url, err := s.storage.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	tags, err := s.recognizer.Tags(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	guesses := make([]model.Ingredient, 0, len(tags))
	for _, tag := range tags {
		guesses = append(guesses, model.Ingredient{Name: tag})
	}
	canonical, err := s.ingredients.UpsertByName(ctx, guesses)
	if err != nil {
		return nil, err
	}

	image := &model.FoodImage{
		StorageKey:   key,
		URL:          url,
		UploadedByID: userID,
		Ingredients:  canonical,
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *imageService) Get(ctx context.Context, storageKey string) (*model.FoodImage, error) {
	image, err := s.images.FindByKey(ctx, storageKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrImageNotFound
		}
		return nil, err
	}
	return image, nil
}

func (s *imageService) ListByUser(ctx context.Context, userID uint) ([]model.FoodImage, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}
	return s.images.FindByUser(ctx, userID)
}

// Delete removes the stored object first, then the database row; a row must
// never outlive its object silently the other way around.
func (s *imageService) Delete(ctx context.Context, storageKey string) error {
	if _, err := s.Get(ctx, storageKey); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	return s.images.Delete(ctx, storageKey)
}

func splitContentType(contentType string) (topLevel, subtype string, ok bool) {
	parts := strings.SplitN(contentType, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	// Strip any media type parameters ("image/jpeg; charset=...").
	if idx := strings.IndexByte(parts[1], ';'); idx >= 0 {
		parts[1] = strings.TrimSpace(parts[1][:idx])
	}
	return parts[0], parts[1], true
}
