package routes

import (
	"context"
	"github.com/labstack/echo/v4"
	"net/http"
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/service"
	"slotly/cmd/internal/utils"
	"slotly/cmd/internal/utils/apierror"
	"strings"
)

type AppointmentService interface {
	ListAll(ctx context.Context) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	ListForOwner(ctx context.Context, identity *entity.Identity) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	CreateAppointment(ctx context.Context, req *service.AppointmentRequest, identity *entity.Identity) (*service.AppointmentResponse, apierror.ErrorResponse)
	Transition(ctx context.Context, id string, req *service.StatusRequest, identity *entity.Identity) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(ctx context.Context, id string, identity *entity.Identity) apierror.ErrorResponse
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	appts, apierr := a.AppointmentService.ListAll(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appts)
}

func (a *DefaultAppointmentRoute) GetMyAppointments(c echo.Context) error {
	identity, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.MissingAuthTokenError)
	}

	appts, apierr := a.AppointmentService.ListForOwner(c.Request().Context(), identity)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appts)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	identity, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.MissingAuthTokenError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(c.Request().Context(), &req, identity)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) UpdateAppointment(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	var req service.StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	identity, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.MissingAuthTokenError)
	}

	appt, apierr := a.AppointmentService.Transition(c.Request().Context(), id, &req, identity)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	identity, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.MissingAuthTokenError)
	}

	serr := a.AppointmentService.DeleteAppointment(c.Request().Context(), id, identity)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusNoContent)
}
