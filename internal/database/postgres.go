package database

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/nutriplus/nutribot/internal/config"
	"github.com/nutriplus/nutribot/internal/database/migrations"
	"github.com/nutriplus/nutribot/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// User is the persisted profile: identity, the subscription flag (the only
// stored entitlement input) and the active goal set. gorm.Model's CreatedAt is
// the account-creation instant the trial is measured from.
type User struct {
	gorm.Model
	TelegramID         int64 `gorm:"uniqueIndex"`
	Username           string
	FirstName          string
	LastName           string
	SubscriptionActive bool `gorm:"default:false"`

	GoalCalories float64 `gorm:"default:0"`
	GoalProtein  float64 `gorm:"default:0"`
	GoalCarbs    float64 `gorm:"default:0"`
	GoalFat      float64 `gorm:"default:0"`
}

// Meal is one diary entry. The ID is the ledger-assigned UUID so optimistic
// local records and stored rows share identifiers.
type Meal struct {
	ID          string `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	User        User
	Name        string
	Timestamp   time.Time `gorm:"index"`
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Portion     string
	ImageURL    string
	Ingredients []string `gorm:"serializer:json"`
	CreatedAt   time.Time
}

// SavedRecipe is a favorited recipe suggestion, matched by name per user.
type SavedRecipe struct {
	gorm.Model
	UserID       uint   `gorm:"index"`
	User         User
	Name         string
	Description  string
	TimeToCook   string
	Difficulty   string
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Ingredients  []string `gorm:"serializer:json"`
	Instructions []string `gorm:"serializer:json"`
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get the directory of the current file
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("failed to get current file path")
	}
	migrationsDir := filepath.Join(filepath.Dir(filename), "migrations")

	// Auto-migrate the schema first so SQL migrations can assume the tables.
	if err := db.AutoMigrate(&User{}, &Meal{}, &SavedRecipe{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.LoadSQLMigrations(db, migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}
