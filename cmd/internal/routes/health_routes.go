package routes

import (
	"github.com/labstack/echo/v4"
	"net/http"
)

const livenessText = "Booking service is running"

func Liveness(c echo.Context) error {
	return c.String(http.StatusOK, livenessText)
}
