package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"taxifleet/auth"
	"taxifleet/controllers"
	"taxifleet/database"
	"taxifleet/models"
	"taxifleet/repositories"
	"taxifleet/services"
	"testing"

	restful "github.com/emicklei/go-restful/v3"
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

// setupServer wires repositories, services, and controllers onto a fresh
// container over an in-memory database, mirroring main.
func setupServer(t *testing.T) (*restful.Container, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	manufacturerRepo := repositories.NewManufacturerRepository(db)
	carRepo := repositories.NewCarRepository(db)
	driverRepo := repositories.NewDriverRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	manufacturerService := services.NewManufacturerService(manufacturerRepo)
	carService := services.NewCarService(carRepo, manufacturerRepo, driverRepo)
	driverService := services.NewDriverService(driverRepo)
	fleetService := services.NewFleetService(driverRepo, carRepo, manufacturerRepo, sessionRepo)

	container := restful.NewContainer()
	registerRoutes := []func(ws *restful.WebService){
		controllers.NewFleetController(fleetService, auth.NewLoginHandler(driverRepo)).RegisterRoutes,
		controllers.NewManufacturerController(manufacturerService).RegisterRoutes,
		controllers.NewCarController(carService).RegisterRoutes,
		controllers.NewDriverController(driverService).RegisterRoutes,
	}
	for _, register := range registerRoutes {
		ws := new(restful.WebService)
		register(ws)
		container.Add(ws)
	}
	return container, db
}

func createDriver(t *testing.T, db *gorm.DB, username, password, license string) models.Driver {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	driver := models.Driver{Username: username, Password: string(hash), LicenseNumber: license}
	require.NoError(t, db.Create(&driver).Error)
	return driver
}

func bearerToken(t *testing.T, driver *models.Driver) string {
	t.Helper()
	token, err := auth.GenerateToken(driver)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, container *restful.Container, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", restful.MIME_JSON)
	req.Header.Set("Accept", restful.MIME_JSON)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	container.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedDriverListRedirects(t *testing.T) {
	container, _ := setupServer(t)

	w := doJSON(t, container, http.MethodGet, "/drivers", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestCarAndManufacturerListsArePublic(t *testing.T) {
	container, _ := setupServer(t)

	w := doJSON(t, container, http.MethodGet, "/cars", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, container, http.MethodGet, "/manufacturers", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	container, db := setupServer(t)
	createDriver(t, db, "testuser", "testpass123", "TEST123")

	t.Run("valid credentials", func(t *testing.T) {
		w := doJSON(t, container, http.MethodPost, "/login", "", auth.LoginCredentials{
			Username: "testuser",
			Password: "testpass123",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp auth.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, auth.TokenCookie, cookies[0].Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, container, http.MethodPost, "/login", "", auth.LoginCredentials{
			Username: "testuser",
			Password: "wrongpass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDriverListSearch(t *testing.T) {
	container, db := setupServer(t)
	caller := createDriver(t, db, "testuser", "testpass123", "TEST123")
	createDriver(t, db, "john_driver", "pass12345", "JD001")
	createDriver(t, db, "jane_driver", "pass12345", "JD002")
	createDriver(t, db, "bob_taxi", "pass12345", "BT001")
	token := bearerToken(t, &caller)

	t.Run("substring filter", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, "/drivers?username=driver", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "john_driver")
		assert.Contains(t, body, "jane_driver")
		assert.NotContains(t, body, "bob_taxi")
	})

	t.Run("case insensitive", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, "/drivers?username=JOHN", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "john_driver")
	})

	t.Run("empty query returns all and echoes empty search", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, "/drivers?username=", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp controllers.PaginatedDriversResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Drivers, 4)
		assert.Equal(t, "", resp.Search)
	})

	t.Run("search term echoed back", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, "/drivers?username=nonexistent", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp controllers.PaginatedDriversResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Drivers)
		assert.Equal(t, "nonexistent", resp.Search)
	})
}

func TestDriverRegistration(t *testing.T) {
	container, _ := setupServer(t)

	t.Run("valid form creates driver", func(t *testing.T) {
		w := doJSON(t, container, http.MethodPost, "/drivers", "", services.DriverCreationInput{
			Username:        "newdriver",
			Password:        "complexpass123",
			ConfirmPassword: "complexpass123",
			FirstName:       "John",
			LastName:        "Doe",
			LicenseNumber:   "ABC12345",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp controllers.DriverResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "newdriver", resp.Username)
		assert.Equal(t, "newdriver (John Doe)", resp.Display)
	})

	t.Run("password mismatch rejected with field errors", func(t *testing.T) {
		w := doJSON(t, container, http.MethodPost, "/drivers", "", services.DriverCreationInput{
			Username:        "another",
			Password:        "complexpass123",
			ConfirmPassword: "differentpass123",
			LicenseNumber:   "ABC12345",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp controllers.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "confirm_password")
	})
}

func TestCarRoutes(t *testing.T) {
	container, db := setupServer(t)
	caller := createDriver(t, db, "testuser", "testpass123", "TEST123")
	token := bearerToken(t, &caller)

	manufacturer := models.Manufacturer{Name: "Toyota", Country: "Japan"}
	require.NoError(t, db.Create(&manufacturer).Error)

	var carID uint
	t.Run("create", func(t *testing.T) {
		w := doJSON(t, container, http.MethodPost, "/cars", token, services.CarInput{
			Model:          "Camry",
			ManufacturerID: manufacturer.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp controllers.CarResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Camry", resp.Model)
		require.NotNil(t, resp.Manufacturer)
		assert.Equal(t, "Toyota", resp.Manufacturer.Name)
		carID = resp.ID
	})

	t.Run("detail", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, fmt.Sprintf("/cars/%d", carID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Camry")
	})

	t.Run("detail of missing car is 404", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, "/cars/9999", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("toggle assign redirects to detail", func(t *testing.T) {
		w := doJSON(t, container, http.MethodPost, fmt.Sprintf("/cars/%d/toggle-assign", carID), token, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, fmt.Sprintf("/cars/%d", carID), w.Header().Get("Location"))

		detail := doJSON(t, container, http.MethodGet, fmt.Sprintf("/cars/%d", carID), token, nil)
		assert.Contains(t, detail.Body.String(), "testuser")

		// A second toggle returns the pair to its original state.
		w = doJSON(t, container, http.MethodPost, fmt.Sprintf("/cars/%d/toggle-assign", carID), token, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)

		detail = doJSON(t, container, http.MethodGet, fmt.Sprintf("/cars/%d", carID), token, nil)
		var resp controllers.CarResponse
		require.NoError(t, json.Unmarshal(detail.Body.Bytes(), &resp))
		assert.Empty(t, resp.Drivers)
	})
}

func TestManufacturerSearchRoutes(t *testing.T) {
	container, db := setupServer(t)
	caller := createDriver(t, db, "testuser", "testpass123", "TEST123")
	token := bearerToken(t, &caller)
	for _, pair := range [][2]string{{"Toyota", "Japan"}, {"Tesla", "USA"}, {"BMW", "Germany"}} {
		require.NoError(t, db.Create(&models.Manufacturer{Name: pair[0], Country: pair[1]}).Error)
	}

	t.Run("unmatched search yields empty page", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, "/manufacturers?name=Ferrari", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp controllers.PaginatedManufacturersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Manufacturers)
	})

	t.Run("partial match", func(t *testing.T) {
		w := doJSON(t, container, http.MethodGet, "/manufacturers?name=Te", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Tesla")
		assert.NotContains(t, w.Body.String(), "BMW")
	})
}

func TestIndexCountsAndVisitCounter(t *testing.T) {
	container, db := setupServer(t)
	caller := createDriver(t, db, "testuser", "testpass123", "TEST123")
	token := bearerToken(t, &caller)

	m := models.Manufacturer{Name: "Toyota", Country: "Japan"}
	require.NoError(t, db.Create(&m).Error)
	require.NoError(t, db.Create(&models.Car{CarModel: "Camry", ManufacturerID: m.ID}).Error)

	w := doJSON(t, container, http.MethodGet, "/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var overview services.FleetOverview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.EqualValues(t, 1, overview.NumDrivers)
	assert.EqualValues(t, 1, overview.NumCars)
	assert.EqualValues(t, 1, overview.NumManufacturers)
	assert.Equal(t, 1, overview.NumVisits)

	// The session cookie from the first response keys the counter.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", restful.MIME_JSON)
	req.Header.Set("Authorization", token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	container.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &overview))
	assert.Equal(t, 2, overview.NumVisits)
}

func TestLicenseUpdateRoute(t *testing.T) {
	container, db := setupServer(t)
	caller := createDriver(t, db, "testuser", "testpass123", "OLD12345")
	token := bearerToken(t, &caller)

	w := doJSON(t, container, http.MethodPut, fmt.Sprintf("/drivers/%d/license", caller.ID), token,
		services.LicenseUpdateInput{LicenseNumber: "NEW12345"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp controllers.DriverResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NEW12345", resp.LicenseNumber)
	assert.Equal(t, "testuser", resp.Username)
}
