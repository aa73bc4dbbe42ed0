package controllers

import (
	"net/http"
	"taxifleet/auth"
	"taxifleet/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
)

// sessionCookie identifies the visit-counter session, separate from the auth
// token so logging out does not reset the counter.
const sessionCookie = "fleet_session"

// FleetController serves the authenticated home page: entity counts plus the
// per-session visit counter.
type FleetController struct {
	fleetService services.FleetService
	login        *auth.LoginHandler
}

// NewFleetController creates a FleetController instance
func NewFleetController(fleetService services.FleetService, login *auth.LoginHandler) *FleetController {
	return &FleetController{fleetService: fleetService, login: login}
}

// RegisterRoutes sets up the root routes for a go-restful WebService.
func (ctl *FleetController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").Filter(auth.RequireLogin()).To(ctl.indexHandler).
		Doc("Fleet overview: entity counts and the session visit counter").
		Metadata(restfulspec.KeyOpenAPITags, []string{"fleet"}).
		Writes(services.FleetOverview{}).
		Returns(http.StatusOK, "Overview", services.FleetOverview{}).
		Returns(http.StatusFound, "Redirect to login", nil))

	ws.Route(ws.POST("login").To(ctl.login.Login).
		Doc("Exchange driver credentials for a token").
		Metadata(restfulspec.KeyOpenAPITags, []string{"fleet"}).
		Reads(auth.LoginCredentials{}).
		Returns(http.StatusOK, "Logged in", auth.LoginResponse{}).
		Returns(http.StatusUnauthorized, "Invalid credentials", auth.LoginResponse{}))
}

// indexHandler (Handles GET /). A missing session cookie starts a fresh
// session with a random token.
func (ctl *FleetController) indexHandler(request *restful.Request, response *restful.Response) {
	token := ""
	if cookie, err := request.Request.Cookie(sessionCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = uuid.NewString()
		http.SetCookie(response.ResponseWriter, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
		})
	}

	overview, err := ctl.fleetService.Overview(token)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, overview, restful.MIME_JSON)
}
