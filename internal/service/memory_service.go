package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/vbonduro/memoryvault/internal/domain"
	"github.com/vbonduro/memoryvault/internal/imagestore"
	"github.com/vbonduro/memoryvault/internal/store"
)

// memoryRepository is the subset of store.MemoryStore that MemoryService requires.
type memoryRepository interface {
	Create(ctx context.Context, p store.NewMemoryParams) (*domain.Memory, error)
	GetByID(ctx context.Context, id int64) (*domain.Memory, error)
	ListIDsInRange(ctx context.Context, vaultID int64, from, through time.Time) ([]int64, error)
}

type MemoryService struct {
	memories memoryRepository
	images   imagestore.ImageStore
	rng      *rand.Rand
	logger   *slog.Logger
}

// NewMemoryService wires the memory service. rng drives random slideshow
// ordering and is injected so shuffles are reproducible under test.
func NewMemoryService(memories memoryRepository, images imagestore.ImageStore, rng *rand.Rand, logger *slog.Logger) *MemoryService {
	return &MemoryService{memories: memories, images: images, rng: rng, logger: logger}
}

type UploadParams struct {
	VaultID     int64
	Description string
	Date        string // YYYY-MM-DD, the remembered date
	Latitude    *float64
	Longitude   *float64

	// Optional image. ImagePrefix groups stored files by uploader.
	Image       io.Reader
	ImageMIME   string
	ImagePrefix string
}

// Upload stores the optional image and persists the memory. Whether the
// date falls inside the vault's current collection period is the caller's
// check, not enforced here.
func (s *MemoryService) Upload(ctx context.Context, p UploadParams) (*domain.Memory, error) {
	date, err := time.Parse(domain.DateLayout, p.Date)
	if err != nil {
		return nil, validationf("memory date must be in YYYY-MM-DD format")
	}

	var imageURI *string
	if p.Image != nil {
		key, err := s.images.Save(ctx, p.ImagePrefix, p.ImageMIME, p.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		imageURI = &key
	}

	memory, err := s.memories.Create(ctx, store.NewMemoryParams{
		VaultID:     p.VaultID,
		Description: p.Description,
		Date:        date,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		ImageURI:    imageURI,
	})
	if err != nil {
		if imageURI != nil {
			if derr := s.images.Delete(ctx, *imageURI); derr != nil {
				s.logger.Error("failed to roll back image after create error", "storage_key", *imageURI, "error", derr)
			}
		}
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	s.logger.Info("memory uploaded", "memory_id", memory.ID, "vault_id", memory.VaultID, "has_image", imageURI != nil)
	return memory, nil
}

// SlideshowOrder returns the ids of the vault's memories dated inside
// [periodStart, periodEnd], ordered for playback: ascending by date,
// uniformly shuffled, or reversed, per mode. Unknown modes play ascending.
func (s *MemoryService) SlideshowOrder(ctx context.Context, vaultID int64, mode domain.SlideshowMode, periodStart, periodEnd time.Time) ([]int64, error) {
	ids, err := s.memories.ListIDsInRange(ctx, vaultID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	switch mode {
	case domain.Random:
		s.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	case domain.ReverseChronological:
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	return ids, nil
}

// MemoryData returns a single memory for display.
func (s *MemoryService) MemoryData(ctx context.Context, memoryID int64) (*domain.Memory, error) {
	memory, err := s.memories.GetByID(ctx, memoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	if memory == nil {
		return nil, ErrMemoryNotFound
	}
	return memory, nil
}
