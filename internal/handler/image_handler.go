package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gorecipe/internal/errors"
	"gorecipe/internal/service"
)

// ImageHandler handles food image upload, retrieval and deletion.
type ImageHandler struct {
	svc service.ImageService
}

// NewImageHandler creates a new image handler.
func NewImageHandler(svc service.ImageService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

// UploadImage godoc
// @Summary Upload a food photo and recognize its ingredients
// @Tags images
// @Accept mpfd
// @Produce json
// @Param userId path int true "User ID"
// @Param image formData file true "Image file"
// @Success 201 {object} model.FoodImage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /images/upload/{userId} [post]
func (h *ImageHandler) UploadImage(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing image file",
			Code:  "INVALID_REQUEST",
		})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable image file",
			Code:  "INVALID_REQUEST",
		})
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	image, err := h.svc.Upload(c.Request().Context(), userID, contentType, src)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, image)
}

// GetImage godoc
// @Summary Fetch a food image record by storage key
// @Tags images
// @Produce json
// @Param key path string true "Storage key"
// @Success 200 {object} model.FoodImage
// @Failure 404 {object} errors.ErrorResponse
// @Router /images/{key} [get]
func (h *ImageHandler) GetImage(c echo.Context) error {
	image, err := h.svc.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, image)
}

// ListUserImages godoc
// @Summary List a user's food images, newest first
// @Tags images
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} model.FoodImage
// @Failure 404 {object} errors.ErrorResponse
// @Router /images/user/{userId} [get]
func (h *ImageHandler) ListUserImages(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	images, err := h.svc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, images)
}

// DeleteImage godoc
// @Summary Delete a food image and its stored object
// @Tags images
// @Param key path string true "Storage key"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /images/{key} [delete]
func (h *ImageHandler) DeleteImage(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("key")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
