package controllers

import (
	"net/http"
	"taxifleet/models"
	"taxifleet/services"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// ManufacturerController serves the /manufacturers resource.
type ManufacturerController struct {
	manufacturerService services.ManufacturerService
}

// NewManufacturerController creates a ManufacturerController instance
func NewManufacturerController(manufacturerService services.ManufacturerService) *ManufacturerController {
	return &ManufacturerController{manufacturerService: manufacturerService}
}

// ManufacturerResponse defines the response structure of manufacturer information
type ManufacturerResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Display   string    `json:"display"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaginatedManufacturersResponse struct {
	Manufacturers []ManufacturerResponse `json:"manufacturers"`
	services.Pagination
}

func mapModelToManufacturerResponse(m *models.Manufacturer) ManufacturerResponse {
	if m == nil {
		return ManufacturerResponse{}
	}
	return ManufacturerResponse{
		ID:        m.ID,
		Name:      m.Name,
		Country:   m.Country,
		Display:   m.String(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// RegisterRoutes sets up the manufacturer routes for a go-restful WebService.
func (ctl *ManufacturerController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/manufacturers").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").To(ctl.listHandler).
		Doc("List manufacturers, optionally filtered by a name substring").
		Param(ws.QueryParameter("name", "Case-insensitive substring filter on name").DataType("string")).
		Param(ws.QueryParameter("page", "Page number (default 1)").DataType("integer").DefaultValue("1")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"manufacturers"}).
		Writes(PaginatedManufacturersResponse{}).
		Returns(http.StatusOK, "Manufacturers listed successfully", PaginatedManufacturersResponse{}))

	ws.Route(ws.POST("").To(ctl.createHandler).
		Doc("Create a manufacturer").
		Metadata(restfulspec.KeyOpenAPITags, []string{"manufacturers"}).
		Reads(services.ManufacturerInput{}).
		Returns(http.StatusCreated, "Manufacturer created successfully", ManufacturerResponse{}).
		Returns(http.StatusBadRequest, "Invalid form input", ErrorResponse{}))

	ws.Route(ws.PUT("/{manufacturer-id}").To(ctl.updateHandler).
		Doc("Update a manufacturer").
		Param(ws.PathParameter("manufacturer-id", "Identifier of the manufacturer").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"manufacturers"}).
		Reads(services.ManufacturerInput{}).
		Returns(http.StatusOK, "Manufacturer updated successfully", ManufacturerResponse{}).
		Returns(http.StatusBadRequest, "Invalid form input", ErrorResponse{}).
		Returns(http.StatusNotFound, "Manufacturer not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/{manufacturer-id}").To(ctl.deleteHandler).
		Doc("Delete a manufacturer and its cars").
		Param(ws.PathParameter("manufacturer-id", "Identifier of the manufacturer").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"manufacturers"}).
		Returns(http.StatusNoContent, "Manufacturer deleted", nil).
		Returns(http.StatusNotFound, "Manufacturer not found", ErrorResponse{}))
}

// listHandler (Handles GET /manufacturers)
func (ctl *ManufacturerController) listHandler(request *restful.Request, response *restful.Response) {
	name := request.QueryParameter("name")
	page := parsePage(request)

	result, err := ctl.manufacturerService.List(name, page)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	items := make([]ManufacturerResponse, len(result.Manufacturers))
	for i := range result.Manufacturers {
		items[i] = mapModelToManufacturerResponse(&result.Manufacturers[i])
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, PaginatedManufacturersResponse{
		Manufacturers: items,
		Pagination:    result.Pagination,
	}, restful.MIME_JSON)
}

// createHandler (Handles POST /manufacturers)
func (ctl *ManufacturerController) createHandler(request *restful.Request, response *restful.Response) {
	input := new(services.ManufacturerInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	m, err := ctl.manufacturerService.Create(input)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, mapModelToManufacturerResponse(m), restful.MIME_JSON)
}

// updateHandler (Handles PUT /manufacturers/{manufacturer-id})
func (ctl *ManufacturerController) updateHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "manufacturer-id")
	if !ok {
		return
	}
	input := new(services.ManufacturerInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	m, err := ctl.manufacturerService.Update(id, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToManufacturerResponse(m), restful.MIME_JSON)
}

// deleteHandler (Handles DELETE /manufacturers/{manufacturer-id})
func (ctl *ManufacturerController) deleteHandler(request *restful.Request, response *restful.Response) {
	id, ok := parsePathID(request, response, "manufacturer-id")
	if !ok {
		return
	}
	if err := ctl.manufacturerService.Delete(id); err != nil {
		handleServiceError(response, err)
		return
	}
	response.WriteHeader(http.StatusNoContent)
}
