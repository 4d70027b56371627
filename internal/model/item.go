package model

import "time"

type ItemStatus string

const (
	ItemStatusActive    ItemStatus = "active"
	ItemStatusInTrade   ItemStatus = "in_trade"
	ItemStatusCompleted ItemStatus = "completed"
)

// Item is a barter listing. MinValue <= MaxValue always holds for persisted
// rows. OwnerUID, City and District are frozen after creation.
type Item struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement"`
	OwnerUID    string      `gorm:"column:owner_uid;size:128;not null;index:idx_items_owner_uid"`
	Title       string      `gorm:"size:200;not null"`
	Description string      `gorm:"type:text;not null"`
	MinValue    int         `gorm:"column:min_value;not null"`
	MaxValue    int         `gorm:"column:max_value;not null"`
	WantedName  string      `gorm:"column:wanted_name;size:200;not null"`
	City        string      `gorm:"size:50;not null;index:idx_items_city"`
	District    string      `gorm:"size:50;not null"`
	Status      ItemStatus  `gorm:"size:32;not null;index:idx_items_status"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime"`
	Images      []ItemImage `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

func (Item) TableName() string {
	return "items"
}
