package services

import (
	"strings"
	"taxifleet/models"
	"taxifleet/repositories"
)

// The ManufacturerService interface defines the methods that manufacturer
// services need to implement
type ManufacturerService interface {
	Create(input *ManufacturerInput) (*models.Manufacturer, error)
	GetByID(id uint) (*models.Manufacturer, error)
	Update(id uint, input *ManufacturerInput) (*models.Manufacturer, error)
	Delete(id uint) error
	List(search string, page int) (*ManufacturerPage, error)
}

// ManufacturerInput is the create/update form for a Manufacturer.
type ManufacturerInput struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// ManufacturerPage is one page of a filtered Manufacturer listing.
type ManufacturerPage struct {
	Manufacturers []models.Manufacturer
	Pagination
}

type manufacturerService struct {
	repo repositories.ManufacturerRepository
}

var _ ManufacturerService = (*manufacturerService)(nil)

// NewManufacturerService creates a new ManufacturerService instance
func NewManufacturerService(repo repositories.ManufacturerRepository) ManufacturerService {
	return &manufacturerService{repo: repo}
}

func (s *manufacturerService) validate(input *ManufacturerInput) error {
	verr := NewValidationError()
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "name is required")
	}
	if strings.TrimSpace(input.Country) == "" {
		verr.Add("country", "country is required")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *manufacturerService) Create(input *ManufacturerInput) (*models.Manufacturer, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	m := models.Manufacturer{
		Name:    input.Name,
		Country: input.Country,
	}
	if err := s.repo.Create(&m); err != nil {
		return nil, translateRepoError(err)
	}
	return &m, nil
}

func (s *manufacturerService) GetByID(id uint) (*models.Manufacturer, error) {
	m, err := s.repo.FindByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return m, nil
}

func (s *manufacturerService) Update(id uint, input *ManufacturerInput) (*models.Manufacturer, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	m, err := s.repo.FindByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	m.Name = input.Name
	m.Country = input.Country
	if err := s.repo.Update(m); err != nil {
		return nil, translateRepoError(err)
	}
	return m, nil
}

// Delete removes the Manufacturer and, by the recorded cascade decision,
// every Car that references it.
func (s *manufacturerService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return translateRepoError(err)
	}
	return nil
}

// List returns one page of Manufacturers whose name contains the search term
// case-insensitively. An empty term lists everything.
func (s *manufacturerService) List(search string, page int) (*ManufacturerPage, error) {
	total, err := s.repo.CountMatching(search)
	if err != nil {
		return nil, translateRepoError(err)
	}
	pagination := newPagination(search, page, total)
	list, err := s.repo.FindPage(search, pagination.Page, PageSize)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return &ManufacturerPage{Manufacturers: list, Pagination: pagination}, nil
}
