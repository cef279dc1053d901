package main

import (
	"log"
	"os"
	"time"

	"go-shop-backend/internal/model"
	"go-shop-backend/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Migrate schema
	if err := db.AutoMigrate(
		&model.Shop{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Sale{},
		&model.Subscription{},
		&model.Alert{},
	); err != nil {
		log.Fatal("Migration failed: ", err)
	}
	log.Println("Migration complete")

	// 4. Optional demo tenant
	if os.Getenv("SEED_DEMO") == "true" {
		seedDemoShop(db)
	}
}

// seedDemoShop creates a demo owner, shop, and active subscription if they
// don't exist yet.
func seedDemoShop(db *gorm.DB) {
	var existing model.User
	if err := db.Where("username = ?", "demo").First(&existing).Error; err == nil {
		log.Println("Demo user already exists, skipping seed")
		return
	}

	owner := &model.User{
		Username:    "demo",
		CompanyName: "Demo Shop",
		Role:        model.RoleOwner,
		IsActive:    true,
	}
	if err := owner.SetPassword("demo123"); err != nil {
		log.Printf("Warning: failed to hash demo password: %v", err)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(owner).Error; err != nil {
			return err
		}

		shop := &model.Shop{Name: "Demo Shop", OwnerID: owner.ID}
		if err := tx.Create(shop).Error; err != nil {
			return err
		}
		if err := tx.Model(owner).Update("shop_id", shop.ID).Error; err != nil {
			return err
		}

		expires := time.Now().AddDate(1, 0, 0)
		return tx.Create(&model.Subscription{
			ShopID:    shop.ID,
			Status:    model.SubscriptionActive,
			Plan:      "Free",
			StartedAt: time.Now(),
			ExpiresAt: &expires,
		}).Error
	})
	if err != nil {
		log.Printf("Warning: failed to seed demo shop: %v", err)
		return
	}
	log.Println("Demo shop seeded: demo / demo123")
}
