package repository

import (
	"context"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"gorm.io/gorm"
)

type TradeOfferRepository interface {
	WithTx(tx *gorm.DB) TradeOfferRepository
	Create(ctx context.Context, offer *model.TradeOffer) error
	FindByID(ctx context.Context, id uint64) (*model.TradeOffer, error)
	ExistsPending(ctx context.Context, offeredItemID, requestedItemID uint64) (bool, error)
	CountByItem(ctx context.Context, itemID uint64) (int64, error)
	ListByReceiver(ctx context.Context, receiverUID string) ([]model.TradeOffer, error)
	ListBySender(ctx context.Context, senderUID string) ([]model.TradeOffer, error)
	MarkAcceptedIfPending(ctx context.Context, id uint64) (int64, error)
	MarkRejectedIfPending(ctx context.Context, id uint64) (int64, error)
	RejectOtherPending(ctx context.Context, requestedItemID, exceptID uint64) error
}

type tradeOfferRepository struct {
	db *gorm.DB
}

func NewTradeOfferRepository(db *gorm.DB) TradeOfferRepository {
	return &tradeOfferRepository{db: db}
}

func (r *tradeOfferRepository) WithTx(tx *gorm.DB) TradeOfferRepository {
	return &tradeOfferRepository{db: tx}
}

func (r *tradeOfferRepository) Create(ctx context.Context, offer *model.TradeOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *tradeOfferRepository) FindByID(ctx context.Context, id uint64) (*model.TradeOffer, error) {
	var offer model.TradeOffer
	if err := r.db.WithContext(ctx).First(&offer, id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *tradeOfferRepository) ExistsPending(ctx context.Context, offeredItemID, requestedItemID uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.TradeOffer{}).
		Where("offered_item_id = ? AND requested_item_id = ? AND status = ?",
			offeredItemID, requestedItemID, model.TradeOfferStatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tradeOfferRepository) CountByItem(ctx context.Context, itemID uint64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.TradeOffer{}).
		Where("offered_item_id = ? OR requested_item_id = ?", itemID, itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tradeOfferRepository) ListByReceiver(ctx context.Context, receiverUID string) ([]model.TradeOffer, error) {
	var list []model.TradeOffer
	if err := r.db.WithContext(ctx).
		Where("receiver_uid = ?", receiverUID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *tradeOfferRepository) ListBySender(ctx context.Context, senderUID string) ([]model.TradeOffer, error) {
	var list []model.TradeOffer
	if err := r.db.WithContext(ctx).
		Where("sender_uid = ?", senderUID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkAcceptedIfPending flips the offer to accepted and opens contact in one
// guarded write. Zero affected rows means another transition won.
func (r *tradeOfferRepository) MarkAcceptedIfPending(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.TradeOffer{}).
		Where("id = ? AND status = ?", id, model.TradeOfferStatusPending).
		Updates(map[string]interface{}{
			"status":         model.TradeOfferStatusAccepted,
			"contact_opened": true,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *tradeOfferRepository) MarkRejectedIfPending(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.TradeOffer{}).
		Where("id = ? AND status = ?", id, model.TradeOfferStatusPending).
		Update("status", model.TradeOfferStatusRejected)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *tradeOfferRepository) RejectOtherPending(ctx context.Context, requestedItemID, exceptID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.TradeOffer{}).
		Where("requested_item_id = ? AND id <> ? AND status = ?",
			requestedItemID, exceptID, model.TradeOfferStatusPending).
		Update("status", model.TradeOfferStatusRejected).Error
}
