package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/repository"
	"github.com/ahmetclq/web-final-projesi/internal/storage"
	"gorm.io/gorm"
)

type PhotoUpload struct {
	Data []byte
	Ext  string
}

type CreateItemInput struct {
	Title       string
	Description string
	MinValue    int
	MaxValue    int
	WantedName  string
	Photos      []PhotoUpload
}

type UpdateItemInput struct {
	Title       string
	Description string
	MinValue    int
	MaxValue    int
	WantedName  string
}

type ItemService interface {
	Create(ctx context.Context, ownerUID string, in CreateItemInput) (*model.Item, error)
	Update(ctx context.Context, id uint64, requesterUID string, in UpdateItemInput) (*model.Item, error)
	Delete(ctx context.Context, id uint64, requesterUID string) error
	Get(ctx context.Context, id uint64) (*model.Item, error)
	ListMine(ctx context.Context, ownerUID string) ([]model.Item, error)
	RegionFeed(ctx context.Context, uid, district string) (items []model.Item, districts []string, city string, err error)
}

type itemService struct {
	db        *gorm.DB
	itemRepo  repository.ItemRepository
	offerRepo repository.TradeOfferRepository
	userRepo  repository.UserRepository
	blobs     storage.BlobStore
}

func NewItemService(db *gorm.DB, itemRepo repository.ItemRepository, offerRepo repository.TradeOfferRepository, userRepo repository.UserRepository, blobs storage.BlobStore) ItemService {
	return &itemService{db: db, itemRepo: itemRepo, offerRepo: offerRepo, userRepo: userRepo, blobs: blobs}
}

func validateItemFields(title, description, wantedName string, minValue, maxValue int) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	wantedName = strings.TrimSpace(wantedName)
	if title == "" || len(title) > 200 {
		return fmt.Errorf("%w: invalid title", ErrValidation)
	}
	if description == "" || len(description) > 2000 {
		return fmt.Errorf("%w: invalid description", ErrValidation)
	}
	if wantedName == "" || len(wantedName) > 200 {
		return fmt.Errorf("%w: invalid wanted item name", ErrValidation)
	}
	if minValue < 0 || maxValue < 0 {
		return fmt.Errorf("%w: values must be zero or positive", ErrValidation)
	}
	if minValue > maxValue {
		return fmt.Errorf("%w: min value greater than max value", ErrValidation)
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, ownerUID string, in CreateItemInput) (*model.Item, error) {
	if err := validateItemFields(in.Title, in.Description, in.WantedName, in.MinValue, in.MaxValue); err != nil {
		return nil, err
	}
	if len(in.Photos) == 0 {
		return nil, fmt.Errorf("%w: at least one photo is required", ErrValidation)
	}

	owner, err := s.userRepo.FindByUID(ctx, ownerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile not found", ErrNotFound)
		}
		return nil, err
	}

	item := &model.Item{
		OwnerUID:    ownerUID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		MinValue:    in.MinValue,
		MaxValue:    in.MaxValue,
		WantedName:  strings.TrimSpace(in.WantedName),
		City:        owner.City,
		District:    owner.District,
		Status:      model.ItemStatusActive,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	// Photo writes are not part of the item transaction. A failed upload
	// leaves the listing with fewer photos, never in a broken state.
	for _, photo := range in.Photos {
		imageURL, err := s.blobs.Save(ctx, photo.Data, photo.Ext)
		if err != nil {
			log.Printf("warn: photo upload failed for item %d: %v", item.ID, err)
			continue
		}
		img := &model.ItemImage{ItemID: item.ID, ImageURL: imageURL}
		if err := s.itemRepo.CreateImage(ctx, img); err != nil {
			log.Printf("warn: photo record failed for item %d: %v", item.ID, err)
			continue
		}
		item.Images = append(item.Images, *img)
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, id uint64, requesterUID string, in UpdateItemInput) (*model.Item, error) {
	var updated *model.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := s.itemRepo.WithTx(tx)

		item, err := items.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item not found", ErrNotFound)
			}
			return err
		}
		if item.OwnerUID != requesterUID {
			return fmt.Errorf("%w: not the owner of this item", ErrForbidden)
		}
		if item.Status != model.ItemStatusActive {
			return fmt.Errorf("%w: only active items can be updated", ErrInvalidState)
		}
		if err := validateItemFields(in.Title, in.Description, in.WantedName, in.MinValue, in.MaxValue); err != nil {
			return err
		}

		// City, district, owner and status are immutable here.
		rows, err := items.UpdateFieldsIfActive(ctx, id, requesterUID, map[string]interface{}{
			"title":       strings.TrimSpace(in.Title),
			"description": strings.TrimSpace(in.Description),
			"min_value":   in.MinValue,
			"max_value":   in.MaxValue,
			"wanted_name": strings.TrimSpace(in.WantedName),
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: item changed concurrently", ErrInvalidState)
		}

		updated, err = items.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *itemService) Delete(ctx context.Context, id uint64, requesterUID string) error {
	var images []model.ItemImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := s.itemRepo.WithTx(tx)
		offers := s.offerRepo.WithTx(tx)

		item, err := items.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item not found", ErrNotFound)
			}
			return err
		}
		if item.OwnerUID != requesterUID {
			return fmt.Errorf("%w: not the owner of this item", ErrForbidden)
		}
		if item.Status != model.ItemStatusActive {
			return fmt.Errorf("%w: only active items can be deleted", ErrInvalidState)
		}
		count, err := offers.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: item is referenced by trade offers", ErrConflict)
		}

		rows, err := items.DeleteIfActive(ctx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: item changed concurrently", ErrInvalidState)
		}
		images = item.Images
		return nil
	})
	if err != nil {
		return err
	}

	// Blobs go only after the rows are gone for good. Failures are logged,
	// never surfaced.
	for _, img := range images {
		if err := s.blobs.Delete(ctx, img.ImageURL); err != nil {
			log.Printf("warn: photo delete failed for item %d: %v", id, err)
		}
	}
	return nil
}

func (s *itemService) Get(ctx context.Context, id uint64) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item not found", ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) ListMine(ctx context.Context, ownerUID string) ([]model.Item, error) {
	return s.itemRepo.ListByOwner(ctx, ownerUID)
}

func (s *itemService) RegionFeed(ctx context.Context, uid, district string) ([]model.Item, []string, string, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "", fmt.Errorf("%w: profile not found", ErrNotFound)
		}
		return nil, nil, "", err
	}
	items, err := s.itemRepo.ListActiveByRegion(ctx, user.City, district)
	if err != nil {
		return nil, nil, "", err
	}
	districts, err := s.itemRepo.DistrictsByCity(ctx, user.City)
	if err != nil {
		return nil, nil, "", err
	}
	return items, districts, user.City, nil
}
