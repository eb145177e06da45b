package database

import (
	"fmt"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/infrastructure/config"
	"bar-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase 依設定建立資料庫連線
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	common.LogInfo("連線資料庫",
		zap.String("driver", cfg.Database.Driver),
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		// 唯一鍵衝突需要轉譯成 gorm.ErrDuplicatedKey 供上層判斷
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// sqlite 預設不啟用外鍵約束
	if cfg.Database.Driver == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// AutoMigrateAll 建立 / 更新所有資料表
func AutoMigrateAll(db *gorm.DB) error {
	common.LogInfo("執行資料庫遷移")
	if err := db.AutoMigrate(
		&catalog.CategoryType{},
		&catalog.Category{},
		&catalog.Unit{},
		&catalog.Bottle{},
		&catalog.Ingredient{},
		&catalog.Cocktail{},
		&catalog.CocktailIngredient{},
		&catalog.CocktailIngredientBottle{},
		&catalog.CocktailInstruction{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
