package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/repository"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

type ProfileResponse struct {
	UID      string `json:"uid"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	District string `json:"district"`
}

type PublicUserResponse struct {
	UID      string `json:"uid"`
	FullName string `json:"fullName"`
	City     string `json:"city"`
	District string `json:"district"`
}

type UpsertProfileRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	District string `json:"district"`
}

func (h *UserHandler) Me(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	user, err := h.userRepo.FindByUID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "profile not registered"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch profile"))
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateMe registers or updates the caller's profile. Changing city or
// district here does not rewrite existing listings; they keep the region
// they were created in.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	var req UpsertProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.City = strings.TrimSpace(req.City)
	req.District = strings.TrimSpace(req.District)
	if req.FullName == "" || len(req.FullName) > 100 ||
		req.Phone == "" || len(req.Phone) > 20 ||
		req.City == "" || len(req.City) > 50 ||
		req.District == "" || len(req.District) > 50 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_failed", "fullName, phone, city and district are required"))
	}

	user := &model.User{
		UID:      uid,
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
		District: req.District,
	}
	if err := h.userRepo.Upsert(c.Request().Context(), user); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to save profile"))
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

func (h *UserHandler) GetPublic(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	user, err := h.userRepo.FindByUID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "user not found"))
	}
	return c.JSON(http.StatusOK, PublicUserResponse{
		UID:      user.UID,
		FullName: user.FullName,
		City:     user.City,
		District: user.District,
	})
}

func toProfileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		UID:      user.UID,
		FullName: user.FullName,
		Phone:    user.Phone,
		City:     user.City,
		District: user.District,
	}
}
