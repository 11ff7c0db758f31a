package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/microservices/internal/api/metrics"
	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Create handles POST /api/v1/user/.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Username, password and permissions"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  domain.Error
// @Failure      401
// @Failure      403
// @Failure      409   {object}  domain.Error
// @Router       /api/v1/user/ [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	present, err := bindBody(c, &req)
	if err != nil {
		return err
	}

	var input *ports.CreateUserInput
	if present {
		input = &ports.CreateUserInput{
			Username:    req.Username,
			Password:    req.Password,
			Permissions: req.Permissions,
		}
	}

	user, err := h.service.CreateUser(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, user)
}

// Auth handles POST /api/v1/user/auth.
//
// @Summary      Exchange credentials for a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      authRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  domain.Error
// @Router       /api/v1/user/auth [post]
func (h *UserHandler) Auth(c echo.Context) error {
	var req authRequest
	if _, err := bindBody(c, &req); err != nil {
		return err
	}

	token, err := h.service.Authenticate(c.Request().Context(), ports.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		} else {
			metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token})
}
