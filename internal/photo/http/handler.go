package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/photo"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

// Room for multipart framing on top of the file itself.
const multipartOverhead = 1 << 20

type Handler struct {
	service        photo.Service
	userService    user.Service
	maxUploadBytes int64
}

func NewHandler(service photo.Service, userService user.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		userService:    userService,
		maxUploadBytes: maxUploadBytes,
	}
}

// viewer identifies the caller; anonymous requests yield the zero Viewer.
func (h *Handler) viewer(c *gin.Context) photo.Viewer {
	callerID := auth.GetUserID(c)
	if callerID == "" {
		return photo.Viewer{}
	}
	return photo.Viewer{UserID: callerID, IsSysAdmin: h.userService.IsSystemAdmin(c.Request.Context(), callerID)}
}

func (h *Handler) Upload(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, photo.ErrFileTooLarge)
			return
		}
		response.BadRequest(c, "file is required", err)
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		response.Error(c, photo.ErrFileTooLarge)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "failed to open uploaded file", err)
		return
	}
	defer src.Close()

	callerID := auth.GetUserID(c)
	p, err := h.service.Upload(c.Request.Context(), photo.UploadInput{
		PropertyID: uri.ID,
		Filename:   fileHeader.Filename,
		Content:    src,
		ActorID:    callerID,
		IsSysAdmin: h.userService.IsSystemAdmin(c.Request.Context(), callerID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPhotoResponse(p))
}

func (h *Handler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	photos, err := h.service.List(c.Request.Context(), uri.ID, h.viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		items = append(items, NewPhotoResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Serve streams the photo content.
func (h *Handler) Serve(c *gin.Context) {
	var uri PhotoURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, p, err := h.service.Download(c.Request.Context(), uri.ID, uri.PhotoID, h.viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, p.ContentType, p.Filename)
}

// ServeThumbnail streams the square thumbnail of a photo.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri PhotoURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, p, err := h.service.DownloadThumbnail(c.Request.Context(), uri.ID, uri.PhotoID, h.viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG
	h.stream(c, stream, "image/jpeg", p.Filename+"_thumb.jpg")
}

func (h *Handler) stream(c *gin.Context, body io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	c.Header("Cache-Control", "public, max-age=86400")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		// Response already started
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to stream photo")
	}
}

func (h *Handler) Delete(c *gin.Context) {
	var uri PhotoURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	callerID := auth.GetUserID(c)
	isSysAdmin := h.userService.IsSystemAdmin(c.Request.Context(), callerID)

	if err := h.service.Delete(c.Request.Context(), uri.ID, uri.PhotoID, callerID, isSysAdmin); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
