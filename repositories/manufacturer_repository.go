package repositories

import (
	"taxifleet/models"

	"gorm.io/gorm"
)

// ManufacturerRepository interface defines Manufacturer-related database operations
type ManufacturerRepository interface {
	Create(m *models.Manufacturer) error
	FindByID(id uint) (*models.Manufacturer, error)
	Update(m *models.Manufacturer) error
	Delete(id uint) error
	CountMatching(name string) (int64, error)
	FindPage(name string, page int, pageSize int) ([]models.Manufacturer, error)
}

// manufacturerRepository implements the ManufacturerRepository interface
type manufacturerRepository struct {
	db *gorm.DB
}

// NewManufacturerRepository creates a new ManufacturerRepository instance
func NewManufacturerRepository(db *gorm.DB) ManufacturerRepository {
	return &manufacturerRepository{db: db}
}

// Create creates a new Manufacturer
func (r *manufacturerRepository) Create(m *models.Manufacturer) error {
	result := r.db.Create(m)
	return result.Error
}

// FindByID finds Manufacturer by ID
func (r *manufacturerRepository) FindByID(id uint) (*models.Manufacturer, error) {
	var m models.Manufacturer
	result := r.db.First(&m, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &m, nil
}

// Update updates Manufacturer information
func (r *manufacturerRepository) Update(m *models.Manufacturer) error {
	result := r.db.Save(m)
	return result.Error
}

// Delete deletes a Manufacturer and cascades to its Cars, including the
// cars' driver assignment rows. The whole cascade runs in one transaction.
func (r *manufacturerRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var m models.Manufacturer
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}

		var cars []models.Car
		if err := tx.Where("manufacturer_id = ?", id).Find(&cars).Error; err != nil {
			return err
		}
		for i := range cars {
			if err := tx.Model(&cars[i]).Association("Drivers").Clear(); err != nil {
				return err
			}
		}
		if len(cars) > 0 {
			if err := tx.Where("manufacturer_id = ?", id).Delete(&models.Car{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&m).Error
	})
}

// CountMatching counts Manufacturers whose name contains the given substring.
// An empty name counts every Manufacturer.
func (r *manufacturerRepository) CountMatching(name string) (int64, error) {
	var total int64
	err := r.db.Model(&models.Manufacturer{}).Scopes(containsFold("name", name)).Count(&total).Error
	return total, err
}

// FindPage returns one page of Manufacturers filtered by name substring,
// ordered by id for stable pagination.
func (r *manufacturerRepository) FindPage(name string, page int, pageSize int) ([]models.Manufacturer, error) {
	var list []models.Manufacturer
	result := r.db.Scopes(containsFold("name", name)).
		Order("id ASC").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&list)
	if result.Error != nil {
		return nil, result.Error
	}
	return list, nil
}
