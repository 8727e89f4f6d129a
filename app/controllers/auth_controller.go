// Package controllers holds the HTTP handlers of the storefront API.
package controllers

import (
	"errors"
	"net/http"

	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/bind"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/middleware"
	"github.com/sujinlee/moamall/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"omitempty,min=9,max=20"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.service.Register(body.Name, body.Email, body.Password, body.Phone)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusConflict, "Email already registered")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.ServerError(w)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.service.Login(body.Email, body.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid credentials")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.ServerError(w)
		return
	}

	response.Success(w, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.Profile(userID)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, user)
}
