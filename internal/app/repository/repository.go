package repository

import (
	"errors"

	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

// logFailure logs a failed query; missing rows are expected and stay at debug.
func logFailure(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg+": not found", fields)
		return
	}
	logger.Error(msg, err, fields)
}

// deleteByID removes one row by primary key, reporting gorm.ErrRecordNotFound
// when no row matched.
func deleteByID(db *gorm.DB, value interface{}, query string, args ...interface{}) error {
	result := db.Where(query, args...).Delete(value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
