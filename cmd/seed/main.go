package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ahmetclq/web-final-projesi/internal/config"
	"github.com/ahmetclq/web-final-projesi/internal/db"
	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedUser struct {
	UID      string
	FullName string
	Phone    string
	City     string
	District string
}

type seedListing struct {
	OwnerUID   string
	Title      string
	Desc       string
	Min, Max   int
	WantedName string
	ImageURL   string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := conn.AutoMigrate(&model.User{}, &model.Item{}, &model.ItemImage{}, &model.TradeOffer{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := conn.Model(&model.Item{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("items already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	users, listings := buildSeedData()

	err = conn.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			u := model.User{
				UID:      users[i].UID,
				FullName: users[i].FullName,
				Phone:    users[i].Phone,
				City:     users[i].City,
				District: users[i].District,
			}
			if err := tx.Save(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.UID, err)
			}
		}
		byUID := make(map[string]seedUser, len(users))
		for _, u := range users {
			byUID[u.UID] = u
		}
		now := time.Now()
		for i, l := range listings {
			owner := byUID[l.OwnerUID]
			item := model.Item{
				OwnerUID:    l.OwnerUID,
				Title:       l.Title,
				Description: l.Desc,
				MinValue:    l.Min,
				MaxValue:    l.Max,
				WantedName:  l.WantedName,
				City:        owner.City,
				District:    owner.District,
				Status:      model.ItemStatusActive,
				CreatedAt:   now.Add(time.Duration(i) * time.Minute),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("seed item %q: %w", l.Title, err)
			}
			img := model.ItemImage{ItemID: item.ID, ImageURL: l.ImageURL}
			if err := tx.Create(&img).Error; err != nil {
				return fmt.Errorf("seed image for %q: %w", l.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d users and %d items", len(users), len(listings))
	return nil
}

func buildSeedData() ([]seedUser, []seedListing) {
	users := []seedUser{
		{UID: "seed-ayse", FullName: "Ayşe Yılmaz", Phone: "05321112233", City: "İstanbul", District: "Kadıköy"},
		{UID: "seed-mehmet", FullName: "Mehmet Demir", Phone: "05424445566", City: "İstanbul", District: "Beşiktaş"},
		{UID: "seed-zeynep", FullName: "Zeynep Kaya", Phone: "05537778899", City: "Ankara", District: "Çankaya"},
	}
	listings := []seedListing{
		{OwnerUID: "seed-ayse", Title: "Dağ bisikleti", Desc: "Az kullanılmış 27.5 jant dağ bisikleti.", Min: 3000, Max: 4500, WantedName: "laptop", ImageURL: picsumURL(1)},
		{OwnerUID: "seed-ayse", Title: "Akustik gitar", Desc: "Yamaha akustik gitar, kılıfıyla birlikte.", Min: 2000, Max: 3000, WantedName: "tablet", ImageURL: picsumURL(2)},
		{OwnerUID: "seed-mehmet", Title: "Laptop Lenovo ThinkPad", Desc: "i5 işlemci, 16GB RAM, temiz kullanılmış.", Min: 3500, Max: 5000, WantedName: "bisiklet", ImageURL: picsumURL(3)},
		{OwnerUID: "seed-mehmet", Title: "PlayStation 4", Desc: "İki kol ve üç oyun dahil.", Min: 4000, Max: 5500, WantedName: "telefon", ImageURL: picsumURL(4)},
		{OwnerUID: "seed-zeynep", Title: "Tablet Samsung Galaxy Tab", Desc: "Kutusunda, çizik yok.", Min: 2500, Max: 3500, WantedName: "gitar", ImageURL: picsumURL(5)},
	}
	return users, listings
}

func picsumURL(n int) string {
	return fmt.Sprintf("https://picsum.photos/seed/swap-%d/640/480", n)
}
