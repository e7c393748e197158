package routes

import (
	"context"
	"github.com/labstack/echo/v4"
	"net/http"
	"slotly/cmd/internal/service"
	"slotly/cmd/internal/utils/apierror"
)

type UserService interface {
	Register(ctx context.Context, req *service.CredentialsRequest) (*service.RegisterResponse, apierror.ErrorResponse)
	Login(ctx context.Context, req *service.LoginRequest) (*service.UserLoginResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) Register(c echo.Context) error {
	var req service.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Register(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (u *DefaultUserRoute) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
