package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "invalid payload")

// bindBody decodes the JSON request body into dst whatever the declared
// content type. It reports false when the body is empty or the literal null,
// so callers can tell a missing payload from an empty object.
func bindBody(c echo.Context, dst any) (bool, error) {
	req := c.Request()
	if req.Body == nil {
		return false, nil
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return false, errInvalidPayload
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}

	req.Body = io.NopCloser(bytes.NewReader(raw))
	req.ContentLength = int64(len(raw))
	if err := c.Echo().JSONSerializer.Deserialize(c, dst); err != nil {
		return false, errInvalidPayload
	}
	return true, nil
}
