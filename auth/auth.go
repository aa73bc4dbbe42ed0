package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"taxifleet/models"
	"taxifleet/repositories"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// TokenCookie is the session cookie carrying the signed token for callers
// that don't send an Authorization header.
const TokenCookie = "fleet_token"

// LoginPath is where unauthenticated callers get redirected.
const LoginPath = "/login"

// mySigningKey should be a strong, randomly generated secret key,
// and it should be stored securely (e.g., in environment variables,
// a key management service, etc.), NOT hardcoded in your source code.
var mySigningKey = []byte("mySigningKey")

// SetSigningKey allows setting the key from outside the package.
func SetSigningKey(key []byte) {
	if len(key) > 0 {
		mySigningKey = key
	}
}

// CustomClaims represents the custom claims you want to include in your JWT.
type CustomClaims struct {
	DriverID uint   `json:"driver_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT for the given driver.
func GenerateToken(driver *models.Driver) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &CustomClaims{
		DriverID: driver.ID,
		Username: driver.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "taxifleet",
			Subject:   "driver-auth",
			Audience:  []string{"taxifleet-drivers"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(mySigningKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseAndValidateToken parses the signed token and returns its claims.
func ParseAndValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return mySigningKey, nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, errors.New("malformed token")
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, errors.New("token is either expired or not active yet")
			} else if ve.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
				return nil, errors.New("invalid token signature")
			}
		}
		return nil, fmt.Errorf("couldn't handle this token: %w", err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// tokenFromRequest pulls the token out of the Authorization header or,
// failing that, the session cookie.
func tokenFromRequest(req *restful.Request) string {
	authHeader := req.HeaderParameter("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := req.Request.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireLogin creates a go-restful FilterFunction guarding protected routes.
// Unauthenticated callers are redirected to the login route instead of
// receiving the resource. Validated claims are stored as request attributes
// for subsequent handlers.
func RequireLogin() restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		tokenString := tokenFromRequest(req)
		if tokenString == "" {
			redirectToLogin(resp)
			return
		}

		claims, err := ParseAndValidateToken(tokenString)
		if err != nil {
			redirectToLogin(resp)
			return
		}

		req.SetAttribute("driver_id", claims.DriverID)
		req.SetAttribute("username", claims.Username)

		chain.ProcessFilter(req, resp)
	}
}

func redirectToLogin(resp *restful.Response) {
	resp.AddHeader("Location", LoginPath)
	resp.WriteHeader(http.StatusFound)
}

// --- Login route ---

// LoginCredentials defines the structure of the login request
type LoginCredentials struct {
	Username string `json:"username" description:"Username for login"`
	Password string `json:"password" description:"Password for login"`
}

// LoginResponse defines the structure of the login response
type LoginResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// LoginHandler verifies driver credentials and issues a token, both as a JSON
// field and as a session cookie.
type LoginHandler struct {
	drivers repositories.DriverRepository
}

// NewLoginHandler creates a new LoginHandler instance
func NewLoginHandler(drivers repositories.DriverRepository) *LoginHandler {
	return &LoginHandler{drivers: drivers}
}

// Login handles the POST /login route.
func (h *LoginHandler) Login(request *restful.Request, response *restful.Response) {
	creds := new(LoginCredentials)
	err := request.ReadEntity(creds)
	if err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, LoginResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	if creds.Username == "" || creds.Password == "" {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, LoginResponse{Message: "Username and password are required"}, restful.MIME_JSON)
		return
	}

	driver, err := h.drivers.FindByUsername(creds.Username)
	if err != nil {
		// Avoid revealing whether the driver exists
		_ = response.WriteHeaderAndJson(http.StatusUnauthorized, LoginResponse{Message: "Invalid credentials"}, restful.MIME_JSON)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(driver.Password), []byte(creds.Password)); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusUnauthorized, LoginResponse{Message: "Invalid credentials"}, restful.MIME_JSON)
		return
	}

	token, err := GenerateToken(driver)
	if err != nil {
		_ = response.WriteHeaderAndJson(http.StatusInternalServerError, LoginResponse{Message: "Could not generate token"}, restful.MIME_JSON)
		return
	}

	http.SetCookie(response.ResponseWriter, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	_ = response.WriteHeaderAndJson(http.StatusOK, LoginResponse{Token: token}, restful.MIME_JSON)
}
