package services

import (
	"errors"
	"strings"
	"taxifleet/models"
	"taxifleet/repositories"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// commonPasswords mirrors the stock too-common-password screen applied at
// registration time.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"letmein123":  {},
	"iloveyou1":   {},
}

// The DriverService interface defines the methods that driver services need
// to implement
type DriverService interface {
	Create(input *DriverCreationInput) (*models.Driver, error)
	GetByID(id uint) (*models.Driver, error)
	UpdateLicense(id uint, input *LicenseUpdateInput) (*models.Driver, error)
	Delete(id uint) error
	List(search string, page int) (*DriverPage, error)
}

// DriverCreationInput is the registration form: identity, credential, and
// license number in one submission.
type DriverCreationInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	LicenseNumber   string `json:"license_number"`
}

// LicenseUpdateInput updates exactly the license number and nothing else.
type LicenseUpdateInput struct {
	LicenseNumber string `json:"license_number"`
}

// DriverPage is one page of a filtered Driver listing.
type DriverPage struct {
	Drivers []models.Driver
	Pagination
}

type driverService struct {
	repo repositories.DriverRepository
}

var _ DriverService = (*driverService)(nil)

// NewDriverService creates a new DriverService instance
func NewDriverService(repo repositories.DriverRepository) DriverService {
	return &driverService{repo: repo}
}

// validatePassword enforces the credential strength policy: minimum length,
// not purely numeric, not a known common password.
func validatePassword(verr *ValidationError, password string) {
	if len(password) < minPasswordLength {
		verr.Add("password", "password must be at least 8 characters long")
		return
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		verr.Add("password", "password cannot be entirely numeric")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		verr.Add("password", "password is too common")
	}
}

// Create validates the registration form and persists the driver together
// with its bcrypt credential. Validation failure leaves the entity set
// unchanged; the insert itself is a single atomic operation.
func (s *driverService) Create(input *DriverCreationInput) (*models.Driver, error) {
	verr := NewValidationError()

	if strings.TrimSpace(input.Username) == "" {
		verr.Add("username", "username is required")
	} else if _, err := s.repo.FindByUsername(input.Username); err == nil {
		verr.Add("username", "username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if input.Password != input.ConfirmPassword {
		verr.Add("confirm_password", "the two password fields didn't match")
	} else {
		validatePassword(verr, input.Password)
	}

	if strings.TrimSpace(input.LicenseNumber) == "" {
		verr.Add("license_number", "license number is required")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	driver := models.Driver{
		Username:      input.Username,
		Password:      string(hashedPassword),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		LicenseNumber: input.LicenseNumber,
	}
	if err := s.repo.Create(&driver); err != nil {
		return nil, translateRepoError(err)
	}
	return &driver, nil
}

func (s *driverService) GetByID(id uint) (*models.Driver, error) {
	driver, err := s.repo.FindByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return driver, nil
}

// UpdateLicense validates and applies a license-number change. No other
// Driver field is read or written.
func (s *driverService) UpdateLicense(id uint, input *LicenseUpdateInput) (*models.Driver, error) {
	verr := NewValidationError()
	if strings.TrimSpace(input.LicenseNumber) == "" {
		verr.Add("license_number", "license number is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if err := s.repo.UpdateLicense(id, input.LicenseNumber); err != nil {
		return nil, translateRepoError(err)
	}
	return s.GetByID(id)
}

func (s *driverService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return translateRepoError(err)
	}
	return nil
}

// List returns one page of Drivers whose username contains the search term
// case-insensitively. An empty term lists everything.
func (s *driverService) List(search string, page int) (*DriverPage, error) {
	total, err := s.repo.CountMatching(search)
	if err != nil {
		return nil, translateRepoError(err)
	}
	pagination := newPagination(search, page, total)
	drivers, err := s.repo.FindPage(search, pagination.Page, PageSize)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return &DriverPage{Drivers: drivers, Pagination: pagination}, nil
}
