package database

import (
	"log"

	"finleybook/config"
	"finleybook/internal/domain"
	"finleybook/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Merchant{},
		&models.ClickEvent{},
		&models.Commission{},
		&models.LedgerEntry{},
		&models.Payout{},
		&models.SystemSetting{},
	)
}

// SeedAdmins promotes the configured admin emails. Accounts that don't exist
// yet are created with a random-ish placeholder password that must be reset.
func SeedAdmins(db *gorm.DB, emails []string) {
	for _, email := range emails {
		var u models.User
		err := db.Where("email = ?", email).First(&u).Error
		if err == nil {
			if u.Role != domain.RoleAdmin {
				u.Role = domain.RoleAdmin
				if err := db.Save(&u).Error; err != nil {
					log.Printf("[seed] promote admin %s: %v", email, err)
				}
			}
			continue
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte("change-me-"+email), bcrypt.DefaultCost)
		u = models.User{
			Email:        email,
			Username:     email,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			Tier:         domain.TierPro,
		}
		if err := db.Create(&u).Error; err != nil {
			log.Printf("[seed] create admin %s: %v", email, err)
		}
	}
}

// SeedMerchants inserts the launch partner set if the table is empty.
func SeedMerchants(db *gorm.DB) {
	var count int64
	db.Model(&models.Merchant{}).Count(&count)
	if count > 0 {
		return
	}
	merchants := []models.Merchant{
		{
			Slug:             "amazon",
			Name:             "Amazon",
			Category:         "everything",
			BaseRate:         0.04,
			LinkTemplate:     "https://www.amazon.com/dp/{PRODUCT_ID}?tag=finleybook-20&ascsubtag={CLICK_ID}",
			ProductIDPattern: `/(?:dp|gp/product)/([A-Z0-9]{10})`,
			Featured:         true,
		},
		{
			Slug:         "ebay",
			Name:         "eBay",
			Category:     "marketplace",
			BaseRate:     0.02,
			LinkTemplate: "https://www.ebay.com/rover?campid=finleybook&customid={CLICK_ID}&mpre={PRODUCT_URL}",
		},
		{
			Slug:         "booking",
			Name:         "Booking.com",
			Category:     "travel",
			BaseRate:     0.06,
			LinkTemplate: "https://www.booking.com/index.html?aid=finleybook&label={USER_ID}-{CLICK_ID}",
		},
	}
	for i := range merchants {
		merchants[i].Active = true
		if err := db.Create(&merchants[i]).Error; err != nil {
			log.Printf("[seed] merchant %s: %v", merchants[i].Slug, err)
		}
	}
}
