package repositories

import (
	"taxifleet/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository interface defines session-state database operations
type SessionRepository interface {
	IncrementVisits(token string) (int, error)
}

// sessionRepository implements the SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// IncrementVisits bumps the visit counter for the session token and returns
// the new count. The increment is a single upsert, so concurrent requests for
// the same session never lose an update.
func (r *sessionRepository) IncrementVisits(token string) (int, error) {
	session := models.Session{Token: token, Visits: 1}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"visits": gorm.Expr("visits + 1")}),
	}).Create(&session).Error
	if err != nil {
		return 0, err
	}

	var stored models.Session
	if err := r.db.Where("token = ?", token).First(&stored).Error; err != nil {
		return 0, err
	}
	return stored.Visits, nil
}
