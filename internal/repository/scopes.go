package repository

import "gorm.io/gorm"

// notDeleted is the soft-delete predicate applied explicitly by every
// finder. Callers that need deleted rows query without it on purpose.
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// byPosition sorts siblings by their position key with a stable secondary
// order so ties resolve deterministically.
func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC").Order("id ASC")
}
