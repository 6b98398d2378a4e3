package database

import "stayspot/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Spot{},
		&models.Booking{},
		&models.Review{},
		&models.Image{},
	}
}
