package model

import "time"

type TradeOfferStatus string

const (
	TradeOfferStatusPending  TradeOfferStatus = "pending"
	TradeOfferStatusAccepted TradeOfferStatus = "accepted"
	TradeOfferStatusRejected TradeOfferStatus = "rejected"
)

// TradeOffer proposes swapping the sender's listing for the receiver's.
// At most one pending row exists per (offered_item_id, requested_item_id)
// pair. Offers are never deleted; completion is recorded on the items.
type TradeOffer struct {
	ID              uint64           `gorm:"primaryKey;autoIncrement"`
	OfferedItemID   uint64           `gorm:"column:offered_item_id;not null;index:idx_trade_offers_offered"`
	RequestedItemID uint64           `gorm:"column:requested_item_id;not null;index:idx_trade_offers_requested"`
	SenderUID       string           `gorm:"column:sender_uid;size:128;not null;index:idx_trade_offers_sender"`
	ReceiverUID     string           `gorm:"column:receiver_uid;size:128;not null;index:idx_trade_offers_receiver"`
	Status          TradeOfferStatus `gorm:"size:32;not null"`
	ContactOpened   bool             `gorm:"column:contact_opened;not null"`
	CreatedAt       time.Time        `gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime"`

	// Restrict FKs: an item cannot be removed while an offer references it.
	OfferedItem   *Item `gorm:"foreignKey:OfferedItemID;constraint:OnDelete:RESTRICT"`
	RequestedItem *Item `gorm:"foreignKey:RequestedItemID;constraint:OnDelete:RESTRICT"`
}

func (TradeOffer) TableName() string {
	return "trade_offers"
}
