package service

import (
	"testing"
	"time"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory store. A single connection keeps the whole
// test on one SQLite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Item{}, &model.ItemImage{}, &model.TradeOffer{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, uid, city, district, phone string) *model.User {
	t.Helper()
	user := &model.User{
		UID:      uid,
		FullName: "Test " + uid,
		Phone:    phone,
		City:     city,
		District: district,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", uid, err)
	}
	return user
}

type itemSpec struct {
	owner      *model.User
	title      string
	wantedName string
	minValue   int
	maxValue   int
	status     model.ItemStatus
	createdAt  time.Time
}

func seedItemSpec(t *testing.T, db *gorm.DB, spec itemSpec) *model.Item {
	t.Helper()
	if spec.status == "" {
		spec.status = model.ItemStatusActive
	}
	if spec.createdAt.IsZero() {
		spec.createdAt = time.Now().UTC()
	}
	item := &model.Item{
		OwnerUID:    spec.owner.UID,
		Title:       spec.title,
		Description: "description of " + spec.title,
		MinValue:    spec.minValue,
		MaxValue:    spec.maxValue,
		WantedName:  spec.wantedName,
		City:        spec.owner.City,
		District:    spec.owner.District,
		Status:      spec.status,
		CreatedAt:   spec.createdAt,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed item %q: %v", spec.title, err)
	}
	return item
}

func reloadItem(t *testing.T, db *gorm.DB, id uint64) *model.Item {
	t.Helper()
	var item model.Item
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("reload item %d: %v", id, err)
	}
	return &item
}

func reloadOffer(t *testing.T, db *gorm.DB, id uint64) *model.TradeOffer {
	t.Helper()
	var offer model.TradeOffer
	if err := db.First(&offer, id).Error; err != nil {
		t.Fatalf("reload offer %d: %v", id, err)
	}
	return &offer
}
