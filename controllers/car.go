package controllers

import (
	"fmt"
	"net/http"
	"taxifleet/auth"
	"taxifleet/models"
	"taxifleet/services"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// CarController serves the /cars resource, including the driver assignment
// toggle.
type CarController struct {
	carService services.CarService
}

// NewCarController creates a CarController instance
func NewCarController(carService services.CarService) *CarController {
	return &CarController{carService: carService}
}

// CarResponse defines the response structure of car information.
// Manufacturer is always present; Drivers only on the detail route.
type CarResponse struct {
	ID           uint                  `json:"id"`
	Model        string                `json:"model"`
	Display      string                `json:"display"`
	Manufacturer *ManufacturerResponse `json:"manufacturer,omitempty"`
	Drivers      []DriverResponse      `json:"drivers,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type PaginatedCarsResponse struct {
	Cars []CarResponse `json:"cars"`
	services.Pagination
}

func mapModelToCarResponse(car *models.Car, includeDrivers bool) CarResponse {
	if car == nil {
		return CarResponse{}
	}
	resp := CarResponse{
		ID:        car.ID,
		Model:     car.CarModel,
		Display:   car.String(),
		CreatedAt: car.CreatedAt,
		UpdatedAt: car.UpdatedAt,
	}
	if car.Manufacturer.ID != 0 {
		m := mapModelToManufacturerResponse(&car.Manufacturer)
		resp.Manufacturer = &m
	}
	if includeDrivers {
		resp.Drivers = make([]DriverResponse, len(car.Drivers))
		for i := range car.Drivers {
			resp.Drivers[i] = mapModelToDriverResponse(&car.Drivers[i])
		}
	}
	return resp
}

// RegisterRoutes sets up the car routes for a go-restful WebService.
func (ctl *CarController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/cars").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").To(ctl.listHandler).
		Doc("List cars, optionally filtered by a model substring").
		Param(ws.QueryParameter("model", "Case-insensitive substring filter on model").DataType("string")).
		Param(ws.QueryParameter("page", "Page number (default 1)").DataType("integer").DefaultValue("1")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"cars"}).
		Writes(PaginatedCarsResponse{}).
		Returns(http.StatusOK, "Cars listed successfully", PaginatedCarsResponse{}))

	ws.Route(ws.GET("/{car-id}").To(ctl.detailHandler).
		Doc("Get a car with its manufacturer and assigned drivers").
		Param(ws.PathParameter("car-id", "Identifier of the car").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"cars"}).
		Writes(CarResponse{}).
		Returns(http.StatusOK, "Car found", CarResponse{}).
		Returns(http.StatusNotFound, "Car not found", ErrorResponse{}))

	ws.Route(ws.POST("").To(ctl.createHandler).
		Doc("Create a car").
		Metadata(restfulspec.KeyOpenAPITags, []string{"cars"}).
		Reads(services.CarInput{}).
		Returns(http.StatusCreated, "Car created successfully", CarResponse{}).
		Returns(http.StatusBadRequest, "Invalid form input", ErrorResponse{}))

	ws.Route(ws.PUT("/{car-id}").To(ctl.updateHandler).
		Doc("Update a car").
		Param(ws.PathParameter("car-id", "Identifier of the car").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"cars"}).
		Reads(services.CarInput{}).
		Returns(http.StatusOK, "Car updated successfully", CarResponse{}).
		Returns(http.StatusBadRequest, "Invalid form input", ErrorResponse{}).
		Returns(http.StatusNotFound, "Car not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/{car-id}").To(ctl.deleteHandler).
		Doc("Delete a car").
		Param(ws.PathParameter("car-id", "Identifier of the car").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"cars"}).
		Returns(http.StatusNoContent, "Car deleted", nil).
		Returns(http.StatusNotFound, "Car not found", ErrorResponse{}))

	ws.Route(ws.POST("/{car-id}/toggle-assign").Filter(auth.RequireLogin()).To(ctl.toggleAssignHandler).
		Doc("Toggle the calling driver's assignment to the car").
		Param(ws.PathParameter("car-id", "Identifier of the car").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"cars"}).
		Returns(http.StatusSeeOther, "Redirect to the car detail route", nil).
		Returns(http.StatusNotFound, "Car not found", ErrorResponse{}))
}

// listHandler (Handles GET /cars)
func (ctl *CarController) listHandler(request *restful.Request, response *restful.Response) {
	model := request.QueryParameter("model")
	page := parsePage(request)

	result, err := ctl.carService.List(model, page)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	items := make([]CarResponse, len(result.Cars))
	for i := range result.Cars {
		items[i] = mapModelToCarResponse(&result.Cars[i], false)
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, PaginatedCarsResponse{
		Cars:       items,
		Pagination: result.Pagination,
	}, restful.MIME_JSON)
}

// detailHandler (Handles GET /cars/{car-id})
func (ctl *CarController) detailHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "car-id")
	if !ok {
		return
	}
	car, err := ctl.carService.GetByID(id)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToCarResponse(car, true), restful.MIME_JSON)
}

// createHandler (Handles POST /cars)
func (ctl *CarController) createHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CarInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	car, err := ctl.carService.Create(input)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, mapModelToCarResponse(car, true), restful.MIME_JSON)
}

// updateHandler (Handles PUT /cars/{car-id})
func (ctl *CarController) updateHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "car-id")
	if !ok {
		return
	}
	input := new(services.CarInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	car, err := ctl.carService.Update(id, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToCarResponse(car, true), restful.MIME_JSON)
}

// deleteHandler (Handles DELETE /cars/{car-id})
func (ctl *CarController) deleteHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "car-id")
	if !ok {
		return
	}
	if err := ctl.carService.Delete(id); err != nil {
		handleServiceError(response, err)
		return
	}
	response.WriteHeader(http.StatusNoContent)
}

// toggleAssignHandler (Handles POST /cars/{car-id}/toggle-assign).
// The calling driver is taken from the validated token; the flip is explicit,
// so retrying flips the assignment again.
func (ctl *CarController) toggleAssignHandler(request *restful.Request, response *restful.Response) {
	carID, ok := parsePathID(request, response, "car-id")
	if !ok {
		return
	}
	driverID, ok := requestingDriverID(request)
	if !ok {
		_ = response.WriteHeaderAndJson(http.StatusUnauthorized, ErrorResponse{Message: "Cannot identify requesting driver"}, restful.MIME_JSON)
		return
	}

	if _, err := ctl.carService.ToggleDriver(carID, driverID); err != nil {
		handleServiceError(response, err)
		return
	}

	response.AddHeader("Location", fmt.Sprintf("/cars/%d", carID))
	response.WriteHeader(http.StatusSeeOther)
}
