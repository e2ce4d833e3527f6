package database

import (
	"fmt"

	"instawinx/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Friendship{},
	}
}

// pairIndexSQL returns the unique index that allows one friendship per unordered pair.
func pairIndexSQL(dialect string) (string, error) {
	switch dialect {
	case "sqlite":
		return "CREATE UNIQUE INDEX IF NOT EXISTS idx_friendships_pair " +
			"ON friendships (min(user1_id, user2_id), max(user1_id, user2_id))", nil
	case "postgres":
		return "CREATE UNIQUE INDEX IF NOT EXISTS idx_friendships_pair " +
			"ON friendships (LEAST(user1_id, user2_id), GREATEST(user1_id, user2_id))", nil
	default:
		return "", fmt.Errorf("no friendship pair index for dialect %q", dialect)
	}
}

// Migrate creates or updates tables and the indexes GORM tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return err
	}

	stmt, err := pairIndexSQL(db.Dialector.Name())
	if err != nil {
		return err
	}
	return db.Exec(stmt).Error
}
