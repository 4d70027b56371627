package repository

import (
	"context"
	"errors"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

// ItemRepository owns items and their image rows. No other repository
// touches item_images.
type ItemRepository interface {
	WithTx(tx *gorm.DB) ItemRepository
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uint64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]model.Item, error)
	ListActiveByOwner(ctx context.Context, ownerUID string) ([]model.Item, error)
	ListActive(ctx context.Context) ([]model.Item, error)
	ListActiveByRegion(ctx context.Context, city, district string) ([]model.Item, error)
	DistrictsByCity(ctx context.Context, city string) ([]string, error)
	UpdateFieldsIfActive(ctx context.Context, id uint64, ownerUID string, fields map[string]interface{}) (int64, error)
	SetStatus(ctx context.Context, ids []uint64, status model.ItemStatus) error
	CreateImage(ctx context.Context, img *model.ItemImage) error
	DeleteIfActive(ctx context.Context, id uint64) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) WithTx(tx *gorm.DB) ItemRepository {
	return &itemRepository{db: tx}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uint64) (*model.Item, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Images").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerUID string) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("owner_uid = ?", ownerUID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) ListActiveByOwner(ctx context.Context, ownerUID string) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("owner_uid = ? AND status = ?", ownerUID, model.ItemStatusActive).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) ListActive(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("status = ?", model.ItemStatusActive).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) ListActiveByRegion(ctx context.Context, city, district string) ([]model.Item, error) {
	q := r.db.WithContext(ctx).
		Preload("Images").
		Where("status = ? AND city = ?", model.ItemStatusActive, city)
	if district != "" {
		q = q.Where("district = ?", district)
	}
	var items []model.Item
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) DistrictsByCity(ctx context.Context, city string) ([]string, error) {
	var districts []string
	if err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("city = ? AND status = ?", city, model.ItemStatusActive).
		Distinct("district").
		Order("district").
		Pluck("district", &districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

// UpdateFieldsIfActive applies fields only while the row still belongs to
// ownerUID and is active, and reports the affected row count so callers can
// detect a lost race.
func (r *itemRepository) UpdateFieldsIfActive(ctx context.Context, id uint64, ownerUID string, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ? AND owner_uid = ? AND status = ?", id, ownerUID, model.ItemStatusActive).
		Updates(fields)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *itemRepository) SetStatus(ctx context.Context, ids []uint64, status model.ItemStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *itemRepository) CreateImage(ctx context.Context, img *model.ItemImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

// DeleteIfActive removes the item together with its image rows, but only
// while the row is still active. Zero affected rows means the item changed
// under the caller and nothing was removed.
func (r *itemRepository) DeleteIfActive(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.ItemStatusActive).
		Delete(&model.Item{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", id).
		Delete(&model.ItemImage{}).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}
