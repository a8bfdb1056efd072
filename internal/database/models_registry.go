package database

import "even/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.TechHub{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.CommentClap{},
		&models.Like{},
		&models.Bookmark{},
		&models.Subscription{},
	}
}
