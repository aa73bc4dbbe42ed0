package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"taxifleet/services"

	restful "github.com/emicklei/go-restful/v3"
)

// ErrorResponse is the uniform error payload. Fields is only set for
// validation failures.
type ErrorResponse struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// handleServiceError translates service errors to HTTP responses.
func handleServiceError(response *restful.Response, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Fields: verr.Fields}, restful.MIME_JSON)
	case errors.Is(err, services.ErrNotFound):
		_ = response.WriteHeaderAndJson(http.StatusNotFound, ErrorResponse{Message: "Resource not found"}, restful.MIME_JSON)
	default:
		_ = response.WriteHeaderAndJson(http.StatusInternalServerError, ErrorResponse{Message: "An internal error occurred"}, restful.MIME_JSON)
	}
}

// parsePathID reads a numeric path parameter, writing a 400 on bad input.
func parsePathID(request *restful.Request, response *restful.Response, name string) (uint, bool) {
	idStr := request.PathParameter(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, ErrorResponse{Message: "Invalid " + name + " format"}, restful.MIME_JSON)
		return 0, false
	}
	return uint(id), true
}

// parsePage reads the page query parameter, defaulting to 1. Out-of-range
// values are left for the service layer to clamp.
func parsePage(request *restful.Request) int {
	page, err := strconv.Atoi(request.QueryParameter("page"))
	if err != nil {
		return 1
	}
	return page
}

// requestingDriverID extracts the driver ID set by the RequireLogin filter.
func requestingDriverID(request *restful.Request) (uint, bool) {
	attr := request.Attribute("driver_id")
	if attr == nil {
		return 0, false
	}
	id, ok := attr.(uint)
	return id, ok
}
