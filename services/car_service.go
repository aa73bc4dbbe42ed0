package services

import (
	"errors"
	"fmt"
	"strings"
	"taxifleet/models"
	"taxifleet/repositories"

	"gorm.io/gorm"
)

// The CarService interface defines the methods that car services need to
// implement
type CarService interface {
	Create(input *CarInput) (*models.Car, error)
	GetByID(id uint) (*models.Car, error)
	Update(id uint, input *CarInput) (*models.Car, error)
	Delete(id uint) error
	List(search string, page int) (*CarPage, error)
	ToggleDriver(carID uint, driverID uint) (bool, error)
}

// CarInput is the create/update form for a Car. DriverIDs is the optional
// initial assignment set; every referenced Driver must exist.
type CarInput struct {
	Model          string `json:"model"`
	ManufacturerID uint   `json:"manufacturer_id"`
	DriverIDs      []uint `json:"driver_ids"`
}

// CarPage is one page of a filtered Car listing, each Car with its
// Manufacturer preloaded.
type CarPage struct {
	Cars []models.Car
	Pagination
}

type carService struct {
	repo          repositories.CarRepository
	manufacturers repositories.ManufacturerRepository
	drivers       repositories.DriverRepository
}

var _ CarService = (*carService)(nil)

// NewCarService creates a new CarService instance
func NewCarService(
	repo repositories.CarRepository,
	manufacturers repositories.ManufacturerRepository,
	drivers repositories.DriverRepository,
) CarService {
	return &carService{repo: repo, manufacturers: manufacturers, drivers: drivers}
}

// resolveInput validates the form and resolves the referenced Manufacturer
// and Drivers, so a Car can never point at entities that do not exist.
func (s *carService) resolveInput(input *CarInput) ([]models.Driver, error) {
	verr := NewValidationError()
	if strings.TrimSpace(input.Model) == "" {
		verr.Add("model", "model is required")
	}
	if input.ManufacturerID == 0 {
		verr.Add("manufacturer_id", "manufacturer is required")
	} else if _, err := s.manufacturers.FindByID(input.ManufacturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verr.Add("manufacturer_id", fmt.Sprintf("manufacturer %d does not exist", input.ManufacturerID))
		} else {
			return nil, err
		}
	}

	drivers := make([]models.Driver, 0, len(input.DriverIDs))
	for _, id := range input.DriverIDs {
		driver, err := s.drivers.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.Add("driver_ids", fmt.Sprintf("driver %d does not exist", id))
				continue
			}
			return nil, err
		}
		drivers = append(drivers, *driver)
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return drivers, nil
}

func (s *carService) Create(input *CarInput) (*models.Car, error) {
	drivers, err := s.resolveInput(input)
	if err != nil {
		return nil, err
	}
	car := models.Car{
		CarModel:       input.Model,
		ManufacturerID: input.ManufacturerID,
		Drivers:        drivers,
	}
	if err := s.repo.Create(&car); err != nil {
		return nil, translateRepoError(err)
	}
	return s.GetByID(car.ID)
}

func (s *carService) GetByID(id uint) (*models.Car, error) {
	car, err := s.repo.FindByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return car, nil
}

func (s *carService) Update(id uint, input *CarInput) (*models.Car, error) {
	drivers, err := s.resolveInput(input)
	if err != nil {
		return nil, err
	}
	car, err := s.repo.FindByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	car.CarModel = input.Model
	car.ManufacturerID = input.ManufacturerID
	if err := s.repo.Update(car, drivers); err != nil {
		return nil, translateRepoError(err)
	}
	return s.GetByID(id)
}

func (s *carService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return translateRepoError(err)
	}
	return nil
}

// List returns one page of Cars whose model contains the search term
// case-insensitively. An empty term lists everything.
func (s *carService) List(search string, page int) (*CarPage, error) {
	total, err := s.repo.CountMatching(search)
	if err != nil {
		return nil, translateRepoError(err)
	}
	pagination := newPagination(search, page, total)
	cars, err := s.repo.FindPage(search, pagination.Page, PageSize)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return &CarPage{Cars: cars, Pagination: pagination}, nil
}

// ToggleDriver flips the driver's assignment to the car and reports whether
// the driver is assigned afterwards. This is an explicit toggle: repeating
// the call flips the assignment again.
func (s *carService) ToggleDriver(carID uint, driverID uint) (bool, error) {
	assigned, err := s.repo.ToggleDriver(carID, driverID)
	if err != nil {
		return false, translateRepoError(err)
	}
	return assigned, nil
}
