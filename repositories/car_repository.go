package repositories

import (
	"taxifleet/models"

	"gorm.io/gorm"
)

// CarRepository interface defines Car-related database operations
type CarRepository interface {
	Create(car *models.Car) error
	FindByID(id uint) (*models.Car, error)
	Update(car *models.Car, drivers []models.Driver) error
	Delete(id uint) error
	CountMatching(model string) (int64, error)
	FindPage(model string, page int, pageSize int) ([]models.Car, error)
	ToggleDriver(carID uint, driverID uint) (bool, error)
}

// carRepository implements the CarRepository interface
type carRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new CarRepository instance
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

// Create creates a new Car together with any initial driver assignments.
func (r *carRepository) Create(car *models.Car) error {
	result := r.db.Create(car)
	return result.Error
}

// FindByID finds a Car by ID with its Manufacturer and assigned Drivers.
func (r *carRepository) FindByID(id uint) (*models.Car, error) {
	var car models.Car
	result := r.db.Preload("Manufacturer").Preload("Drivers").First(&car, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &car, nil
}

// Update saves the Car's own columns and replaces its driver assignment set.
func (r *carRepository) Update(car *models.Car, drivers []models.Driver) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Drivers", "Manufacturer").Save(car).Error; err != nil {
			return err
		}
		return tx.Model(car).Association("Drivers").Replace(drivers)
	})
}

// Delete removes a Car; only the assignment rows are removed on the driver
// side, never the drivers themselves.
func (r *carRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var car models.Car
		if err := tx.First(&car, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&car).Association("Drivers").Clear(); err != nil {
			return err
		}
		return tx.Delete(&car).Error
	})
}

// CountMatching counts Cars whose model contains the given substring.
func (r *carRepository) CountMatching(model string) (int64, error) {
	var total int64
	err := r.db.Model(&models.Car{}).Scopes(containsFold("model", model)).Count(&total).Error
	return total, err
}

// FindPage returns one page of Cars filtered by model substring, ordered by
// id, with each Car's Manufacturer preloaded.
func (r *carRepository) FindPage(model string, page int, pageSize int) ([]models.Car, error) {
	var cars []models.Car
	result := r.db.Preload("Manufacturer").
		Scopes(containsFold("model", model)).
		Order("id ASC").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&cars)
	if result.Error != nil {
		return nil, result.Error
	}
	return cars, nil
}

// ToggleDriver flips the driver's assignment to the car. The membership check
// and the insert-or-delete run in a single transaction, so two racing toggles
// for the same pair serialize instead of interleaving. Returns whether the
// driver is assigned after the flip.
func (r *carRepository) ToggleDriver(carID uint, driverID uint) (bool, error) {
	var assigned bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var car models.Car
		if err := tx.First(&car, carID).Error; err != nil {
			return err
		}
		var driver models.Driver
		if err := tx.First(&driver, driverID).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Table("car_drivers").
			Where("car_id = ? AND driver_id = ?", carID, driverID).
			Count(&n).Error; err != nil {
			return err
		}

		if n > 0 {
			if err := tx.Model(&car).Association("Drivers").Delete(&driver); err != nil {
				return err
			}
			assigned = false
			return nil
		}
		if err := tx.Model(&car).Association("Drivers").Append(&driver); err != nil {
			return err
		}
		assigned = true
		return nil
	})
	return assigned, err
}
