package services_test

import (
	"fmt"
	"strings"
	"taxifleet/database"
	"taxifleet/models"
	"taxifleet/repositories"
	"taxifleet/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an isolated in-memory SQLite database named after the
// test, so parallel tests never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newDriverService(t *testing.T) (services.DriverService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return services.NewDriverService(repositories.NewDriverRepository(db)), db
}

func validCreationInput() *services.DriverCreationInput {
	return &services.DriverCreationInput{
		Username:        "newdriver",
		Password:        "complexpass123",
		ConfirmPassword: "complexpass123",
		FirstName:       "John",
		LastName:        "Doe",
		LicenseNumber:   "ABC12345",
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestDriverCreationValid(t *testing.T) {
	svc, db := newDriverService(t)

	driver, err := svc.Create(validCreationInput())
	require.NoError(t, err)
	assert.Equal(t, "newdriver", driver.Username)
	assert.Equal(t, "ABC12345", driver.LicenseNumber)

	// The credential is persisted as a verifiable bcrypt hash, not plaintext.
	var stored models.Driver
	require.NoError(t, db.Where("username = ?", "newdriver").First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("complexpass123")))
}

func TestDriverCreationPasswordMismatch(t *testing.T) {
	svc, db := newDriverService(t)

	input := validCreationInput()
	input.ConfirmPassword = "differentpass123"
	_, err := svc.Create(input)
	assert.Contains(t, fieldErrors(t, err), "confirm_password")

	// Nothing persisted on validation failure.
	var count int64
	require.NoError(t, db.Model(&models.Driver{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDriverCreationPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
	}{
		{"too short", "abc123"},
		{"entirely numeric", "84629471350"},
		{"too common", "password123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newDriverService(t)
			input := validCreationInput()
			input.Password = tc.password
			input.ConfirmPassword = tc.password
			_, err := svc.Create(input)
			assert.Contains(t, fieldErrors(t, err), "password")
		})
	}
}

func TestDriverCreationRequiresLicenseNumber(t *testing.T) {
	svc, _ := newDriverService(t)

	input := validCreationInput()
	input.LicenseNumber = ""
	_, err := svc.Create(input)
	assert.Contains(t, fieldErrors(t, err), "license_number")
}

func TestDriverCreationDuplicateUsername(t *testing.T) {
	svc, _ := newDriverService(t)

	_, err := svc.Create(validCreationInput())
	require.NoError(t, err)

	input := validCreationInput()
	input.LicenseNumber = "XYZ98765"
	_, err = svc.Create(input)
	assert.Contains(t, fieldErrors(t, err), "username")
}

func TestLicenseUpdateOnlyNeedsLicenseNumber(t *testing.T) {
	svc, _ := newDriverService(t)
	created, err := svc.Create(validCreationInput())
	require.NoError(t, err)

	updated, err := svc.UpdateLicense(created.ID, &services.LicenseUpdateInput{LicenseNumber: "NEW12345"})
	require.NoError(t, err)
	assert.Equal(t, "NEW12345", updated.LicenseNumber)
	assert.Equal(t, "newdriver", updated.Username)
	assert.Equal(t, "John", updated.FirstName)
}

func TestLicenseUpdateRejectsEmpty(t *testing.T) {
	svc, _ := newDriverService(t)
	created, err := svc.Create(validCreationInput())
	require.NoError(t, err)

	_, err = svc.UpdateLicense(created.ID, &services.LicenseUpdateInput{LicenseNumber: "  "})
	assert.Contains(t, fieldErrors(t, err), "license_number")
}

func TestLicenseUpdateMissingDriver(t *testing.T) {
	svc, _ := newDriverService(t)

	_, err := svc.UpdateLicense(9999, &services.LicenseUpdateInput{LicenseNumber: "NEW12345"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDriverListEchoesSearchAndClampsPage(t *testing.T) {
	svc, db := newDriverService(t)
	for i := 1; i <= 7; i++ {
		driver := models.Driver{
			Username:      fmt.Sprintf("driver%02d", i),
			Password:      "x",
			LicenseNumber: fmt.Sprintf("LIC%03d", i),
		}
		require.NoError(t, db.Create(&driver).Error)
	}

	t.Run("first page", func(t *testing.T) {
		page, err := svc.List("driver", 1)
		require.NoError(t, err)
		assert.Len(t, page.Drivers, 5)
		assert.Equal(t, "driver", page.Search)
		assert.EqualValues(t, 7, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.HasNext)
		assert.False(t, page.HasPrevious)
	})

	t.Run("page beyond end clamps to last", func(t *testing.T) {
		page, err := svc.List("", 99)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Drivers, 2)
		assert.False(t, page.HasNext)
		assert.True(t, page.HasPrevious)
	})

	t.Run("page below one clamps to first", func(t *testing.T) {
		page, err := svc.List("", -3)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Drivers, 5)
	})

	t.Run("unmatched search serves empty page one", func(t *testing.T) {
		page, err := svc.List("nonexistent", 1)
		require.NoError(t, err)
		assert.Empty(t, page.Drivers)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, "nonexistent", page.Search)
	})
}
