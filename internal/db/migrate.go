package db

import (
	"fmt"

	"gorm.io/gorm"

	"gamereviews/internal/model"
)

// usernameColumnDDL keeps usernames case-distinct on MySQL, whose default
// utf8mb4 collation would let the unique index treat "Alice" and "alice" as
// the same key.
const usernameColumnDDL = "ALTER TABLE `users` MODIFY `username` varchar(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"

// Migrate creates or updates every table, then applies dialect fixups that
// struct tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return binaryUsernames(db)
}

func binaryUsernames(db *gorm.DB) error {
	if db.Dialector.Name() != DriverMySQL {
		return nil
	}
	if err := db.Exec(usernameColumnDDL).Error; err != nil {
		return fmt.Errorf("set username collation: %w", err)
	}
	return nil
}
