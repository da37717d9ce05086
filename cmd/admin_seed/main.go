// Command admin_seed bootstraps a fresh deployment: the admin account,
// the gift catalog, and the conversion rate table.
package main

import (
	"log"
	"os"

	"lumora/internal/config"
	"lumora/internal/models"
	"lumora/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword)
	seedRates()
	seedGifts()

	log.Println("Seed complete")
}

func seedAdmin(email, password string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Email:       email,
		Password:    string(hashed),
		DisplayName: "Admin",
		Role:        "admin",
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin account created")
}

// seedRates writes the launch exchange table: 2 coins buy 1 diamond,
// and a diamond settles at 2 cents.
func seedRates() {
	rates := []models.ConversionRate{
		{FromUnit: models.CurrencyCoin, ToUnit: models.CurrencyDiamond, Rate: 0.5},
		{FromUnit: models.CurrencyDiamond, ToUnit: models.CurrencyUSD, Rate: 0.02},
	}

	for _, rate := range rates {
		err := repositories.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_unit"}, {Name: "to_unit"}},
			DoNothing: true,
		}).Create(&rate).Error
		if err != nil {
			log.Fatalf("Failed to seed rate %s->%s: %v", rate.FromUnit, rate.ToUnit, err)
		}
	}

	log.Println("Conversion rates seeded")
}

func seedGifts() {
	gifts := []models.Gift{
		{Code: "rose", Name: "Rose", PriceCoins: 10, DiamondValue: 5, IsActive: true},
		{Code: "applause", Name: "Applause", PriceCoins: 50, DiamondValue: 25, IsActive: true},
		{Code: "comet", Name: "Comet", PriceCoins: 100, DiamondValue: 50, IsActive: true},
		{Code: "supernova", Name: "Supernova", PriceCoins: 1000, DiamondValue: 500, IsActive: true},
	}

	for _, gift := range gifts {
		err := repositories.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&gift).Error
		if err != nil {
			log.Fatalf("Failed to seed gift %s: %v", gift.Code, err)
		}
	}

	log.Println("Gift catalog seeded")
}
