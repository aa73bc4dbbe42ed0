package controllers

import (
	"net/http"
	"taxifleet/auth"
	"taxifleet/models"
	"taxifleet/services"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// DriverController serves the /drivers resource.
type DriverController struct {
	driverService services.DriverService
}

// NewDriverController creates a DriverController instance
func NewDriverController(driverService services.DriverService) *DriverController {
	return &DriverController{driverService: driverService}
}

// DriverResponse defines the response structure of driver information
type DriverResponse struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number"`
	Display       string    `json:"display"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DriverDetailResponse adds the driver's assigned cars, each with its
// manufacturer.
type DriverDetailResponse struct {
	DriverResponse
	Cars []CarResponse `json:"cars"`
}

type PaginatedDriversResponse struct {
	Drivers []DriverResponse `json:"drivers"`
	services.Pagination
}

func mapModelToDriverResponse(driver *models.Driver) DriverResponse {
	if driver == nil {
		return DriverResponse{}
	}
	return DriverResponse{
		ID:            driver.ID,
		Username:      driver.Username,
		FirstName:     driver.FirstName,
		LastName:      driver.LastName,
		LicenseNumber: driver.LicenseNumber,
		Display:       driver.String(),
		CreatedAt:     driver.CreatedAt,
		UpdatedAt:     driver.UpdatedAt,
	}
}

func mapModelToDriverDetailResponse(driver *models.Driver) DriverDetailResponse {
	resp := DriverDetailResponse{DriverResponse: mapModelToDriverResponse(driver)}
	resp.Cars = make([]CarResponse, len(driver.Cars))
	for i := range driver.Cars {
		resp.Cars[i] = mapModelToCarResponse(&driver.Cars[i], false)
	}
	return resp
}

// RegisterRoutes sets up the driver routes for a go-restful WebService.
// Registration is public; everything else requires login.
func (ctl *DriverController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/drivers").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("").To(ctl.createHandler).
		Doc("Register a new driver").
		Metadata(restfulspec.KeyOpenAPITags, []string{"drivers"}).
		Reads(services.DriverCreationInput{}).
		Returns(http.StatusCreated, "Driver created successfully", DriverResponse{}).
		Returns(http.StatusBadRequest, "Invalid form input", ErrorResponse{}))

	ws.Route(ws.GET("").Filter(auth.RequireLogin()).To(ctl.listHandler).
		Doc("List drivers, optionally filtered by a username substring").
		Param(ws.QueryParameter("username", "Case-insensitive substring filter on username").DataType("string")).
		Param(ws.QueryParameter("page", "Page number (default 1)").DataType("integer").DefaultValue("1")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"drivers"}).
		Writes(PaginatedDriversResponse{}).
		Returns(http.StatusOK, "Drivers listed successfully", PaginatedDriversResponse{}).
		Returns(http.StatusFound, "Redirect to login", nil))

	ws.Route(ws.GET("/{driver-id}").Filter(auth.RequireLogin()).To(ctl.detailHandler).
		Doc("Get a driver with assigned cars and their manufacturers").
		Param(ws.PathParameter("driver-id", "Identifier of the driver").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"drivers"}).
		Writes(DriverDetailResponse{}).
		Returns(http.StatusOK, "Driver found", DriverDetailResponse{}).
		Returns(http.StatusNotFound, "Driver not found", ErrorResponse{}))

	ws.Route(ws.PUT("/{driver-id}/license").Filter(auth.RequireLogin()).To(ctl.updateLicenseHandler).
		Doc("Update only the driver's license number").
		Param(ws.PathParameter("driver-id", "Identifier of the driver").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"drivers"}).
		Reads(services.LicenseUpdateInput{}).
		Returns(http.StatusOK, "License updated successfully", DriverResponse{}).
		Returns(http.StatusBadRequest, "Invalid form input", ErrorResponse{}).
		Returns(http.StatusNotFound, "Driver not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/{driver-id}").Filter(auth.RequireLogin()).To(ctl.deleteHandler).
		Doc("Delete a driver; car assignments are removed, cars survive").
		Param(ws.PathParameter("driver-id", "Identifier of the driver").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"drivers"}).
		Returns(http.StatusNoContent, "Driver deleted", nil).
		Returns(http.StatusNotFound, "Driver not found", ErrorResponse{}))
}

// createHandler (Handles POST /drivers)
func (ctl *DriverController) createHandler(request *restful.Request, response *restful.Response) {
	input := new(services.DriverCreationInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	driver, err := ctl.driverService.Create(input)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, mapModelToDriverResponse(driver), restful.MIME_JSON)
}

// listHandler (Handles GET /drivers)
func (ctl *DriverController) listHandler(request *restful.Request, response *restful.Response) {
	username := request.QueryParameter("username")
	page := parsePage(request)

	result, err := ctl.driverService.List(username, page)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	items := make([]DriverResponse, len(result.Drivers))
	for i := range result.Drivers {
		items[i] = mapModelToDriverResponse(&result.Drivers[i])
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, PaginatedDriversResponse{
		Drivers:    items,
		Pagination: result.Pagination,
	}, restful.MIME_JSON)
}

// detailHandler (Handles GET /drivers/{driver-id})
func (ctl *DriverController) detailHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "driver-id")
	if !ok {
		return
	}
	driver, err := ctl.driverService.GetByID(id)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToDriverDetailResponse(driver), restful.MIME_JSON)
}

// updateLicenseHandler (Handles PUT /drivers/{driver-id}/license)
func (ctl *DriverController) updateLicenseHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "driver-id")
	if !ok {
		return
	}
	input := new(services.LicenseUpdateInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	driver, err := ctl.driverService.UpdateLicense(id, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToDriverResponse(driver), restful.MIME_JSON)
}

// deleteHandler (Handles DELETE /drivers/{driver-id})
func (ctl *DriverController) deleteHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "driver-id")
	if !ok {
		return
	}
	if err := ctl.driverService.Delete(id); err != nil {
		handleServiceError(response, err)
		return
	}
	response.WriteHeader(http.StatusNoContent)
}
