package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fritte91/247LocalFinest/internal/api/metrics"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

// maxImageBytes bounds a single uploaded file.
const maxImageBytes = 10 << 20

type AdminHandler struct {
	auth    ports.AuthService
	uploads ports.UploadService
}

func NewAdminHandler(auth ports.AuthService, uploads ports.UploadService) *AdminHandler {
	return &AdminHandler{auth: auth, uploads: uploads}
}

// Users handles GET /admin/users.
//
// @Summary      Count registered users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersCountResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	n, err := h.auth.CountUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersCountResponse{TotalUsers: n})
}

// Upload handles POST /admin/upload with up to four files in the "images"
// form field.
//
// @Summary      Upload product images
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        images  formData  file  true  "Image files (1 to 4)"
// @Success      200     {object}  uploadResponse
// @Failure      400     {object}  errorResponse
// @Failure      415     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /admin/upload [post]
func (h *AdminHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart form with images")
	}

	files := form.File["images"]
	images := make([]ports.ImageUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageBytes {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds %d MB", fh.Filename, maxImageBytes>>20))
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		images = append(images, ports.ImageUpload{Filename: fh.Filename, Data: data})
	}

	urls, err := h.uploads.UploadImages(c.Request().Context(), images)
	if err != nil {
		return err
	}
	metrics.ImagesUploadedTotal.Add(float64(len(urls)))
	return c.JSON(http.StatusOK, uploadResponse{URLs: urls})
}
