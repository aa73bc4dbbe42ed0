package repositories

import (
	"taxifleet/models"

	"gorm.io/gorm"
)

// DriverRepository interface defines Driver-related database operations
type DriverRepository interface {
	Create(driver *models.Driver) error
	FindByID(id uint) (*models.Driver, error)
	FindByUsername(username string) (*models.Driver, error)
	Update(driver *models.Driver) error
	UpdateLicense(id uint, licenseNumber string) error
	Delete(id uint) error
	CountMatching(username string) (int64, error)
	FindPage(username string, page int, pageSize int) ([]models.Driver, error)
}

// driverRepository implements the DriverRepository interface
type driverRepository struct {
	db *gorm.DB
}

// NewDriverRepository creates a new DriverRepository instance
func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &driverRepository{db: db}
}

// Create creates a new Driver
func (r *driverRepository) Create(driver *models.Driver) error {
	result := r.db.Create(driver)
	return result.Error
}

// FindByID finds a Driver by ID with assigned Cars and each Car's Manufacturer.
func (r *driverRepository) FindByID(id uint) (*models.Driver, error) {
	var driver models.Driver
	result := r.db.Preload("Cars.Manufacturer").First(&driver, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &driver, nil
}

// FindByUsername finds a Driver by Username
func (r *driverRepository) FindByUsername(username string) (*models.Driver, error) {
	var driver models.Driver
	result := r.db.Where("username = ?", username).First(&driver)
	if result.Error != nil {
		return nil, result.Error
	}
	return &driver, nil
}

// Update updates Driver information
func (r *driverRepository) Update(driver *models.Driver) error {
	result := r.db.Save(driver)
	return result.Error
}

// UpdateLicense updates only the license_number column, leaving every other
// field untouched.
func (r *driverRepository) UpdateLicense(id uint, licenseNumber string) error {
	result := r.db.Model(&models.Driver{}).Where("id = ?", id).Update("license_number", licenseNumber)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a Driver; its car assignment rows are removed first so the
// cars themselves survive.
func (r *driverRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var driver models.Driver
		if err := tx.First(&driver, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&driver).Association("Cars").Clear(); err != nil {
			return err
		}
		return tx.Delete(&driver).Error
	})
}

// CountMatching counts Drivers whose username contains the given substring.
func (r *driverRepository) CountMatching(username string) (int64, error) {
	var total int64
	err := r.db.Model(&models.Driver{}).Scopes(containsFold("username", username)).Count(&total).Error
	return total, err
}

// FindPage returns one page of Drivers filtered by username substring,
// ordered by id for stable pagination.
func (r *driverRepository) FindPage(username string, page int, pageSize int) ([]models.Driver, error) {
	var drivers []models.Driver
	result := r.db.Scopes(containsFold("username", username)).
		Order("id ASC").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&drivers)
	if result.Error != nil {
		return nil, result.Error
	}
	return drivers, nil
}
