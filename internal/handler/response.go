package handler

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "gamereviews/internal/errors"
)

// MessageResponse is the body of endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts a service error into an echo error carrying the standard
// error body. The original error is kept as Internal for logging.
func fail(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// bindBody binds and validates a JSON body. Failures are schema errors.
func bindBody(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fail(apperrors.Schema("The request body could not be parsed: %s", bindMessage(err)))
	}
	if err := c.Validate(req); err != nil {
		return fail(apperrors.Schema("%s", validationMessage(err)))
	}
	return nil
}

// bindCredentials is bindBody for the auth endpoints, which report every
// malformed request as a validation error.
func bindCredentials(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fail(apperrors.Validation("The request body could not be parsed: %s", bindMessage(err)))
	}
	if err := c.Validate(req); err != nil {
		return fail(apperrors.Validation("%s", validationMessage(err)))
	}
	return nil
}

func bindMessage(err error) string {
	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("'%s' failed the '%s=%s' rule", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("'%s' failed the '%s' rule", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ") + "."
}

// pathID reads an integer path parameter.
func pathID(c echo.Context, name string) (int, error) {
	var id int
	if err := echo.PathParamsBinder(c).MustInt(name, &id).BindError(); err != nil {
		return 0, fail(apperrors.Validation("A valid '%s' must be provided.", name))
	}
	return id, nil
}

// queryID reads an optional integer query parameter; absent means 0.
func queryID(c echo.Context, name string) (int, error) {
	var id int
	if err := echo.QueryParamsBinder(c).Int(name, &id).BindError(); err != nil {
		return 0, fail(apperrors.Validation("A valid '%s' must be provided.", name))
	}
	return id, nil
}
