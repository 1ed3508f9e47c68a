package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/logging"
	"github.com/fotopool/fotopool-sessions/models"
	"github.com/fotopool/fotopool-sessions/services"
	"github.com/fotopool/fotopool-sessions/store"
)

type HttpHandler struct {
	sessionService services.SessionService
	photoService   services.PhotoService

	logger logging.Logger
}

func NewHttpHandler(sessSvc services.SessionService, photoSvc services.PhotoService, l logging.Logger) *HttpHandler {
	return &HttpHandler{
		sessionService: sessSvc,
		photoService:   photoSvc,
		logger:         l,
	}
}

func (h *HttpHandler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/session", h.CreateSession)
	api.GET("/session/:id", h.GetSession)
	api.POST("/session/:id/upload", h.UploadPhoto)
	api.GET("/session/:id/photo/:fname", h.FetchPhoto)
	api.GET("/session/:id/thumb/:fname", h.FetchThumb)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not found")
	})
}

func (h *HttpHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	// all fields are optional, an empty body is a valid request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(c, apperror.ErrBadRequest)
		return
	}

	reply, err := h.sessionService.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *HttpHandler) GetSession(c *gin.Context) {
	session, err := h.sessionService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *HttpHandler) UploadPhoto(c *gin.Context) {
	in := services.UploadInput{
		SessionID:   c.Param("id"),
		Fname:       c.PostForm("fname"),
		GroupID:     c.PostForm("groupId"),
		ContentType: c.PostForm("type"),
	}

	fileHeader, err := c.FormFile("file")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			h.writeError(c, err)
			return
		}
		defer file.Close()

		in.Body = file
		in.Size = fileHeader.Size
		if in.Fname == "" {
			in.Fname = fileHeader.Filename
		}
		if in.ContentType == "" {
			in.ContentType = fileHeader.Header.Get("Content-Type")
		}
	}

	// the thumbnail arrives either as its own file part or as an inline
	// base64 / data-URL form value
	if thumbHeader, err := c.FormFile("thumb"); err == nil {
		thumbFile, err := thumbHeader.Open()
		if err != nil {
			h.writeError(c, err)
			return
		}
		defer thumbFile.Close()
		in.Thumb = &services.ThumbSource{Body: thumbFile, Size: thumbHeader.Size}
	} else if inline := c.PostForm("thumb"); inline != "" {
		in.Thumb = &services.ThumbSource{Inline: inline}
	}

	reply, err := h.photoService.UploadPhoto(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *HttpHandler) FetchPhoto(c *gin.Context) {
	h.fetchAsset(c, store.AssetPhoto)
}

func (h *HttpHandler) FetchThumb(c *gin.Context) {
	h.fetchAsset(c, store.AssetThumb)
}

func (h *HttpHandler) fetchAsset(c *gin.Context, kind store.AssetKind) {
	asset, err := h.photoService.FetchAsset(c.Request.Context(), c.Param("id"), c.Param("fname"), kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer asset.Body.Close()

	c.DataFromReader(http.StatusOK, asset.Size, asset.ContentType, asset.Body, map[string]string{
		"Cache-Control": asset.CacheControl,
	})
}

// writeError translates a domain error to its status code and the uniform
// {"error": message} body.
func (h *HttpHandler) writeError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound), errors.Is(err, apperror.ErrAssetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrSessionExpired):
		status = http.StatusGone
	case errors.Is(err, apperror.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, apperror.ErrPayloadTooLarge), errors.Is(err, apperror.ErrBadRequest):
		status = http.StatusBadRequest
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		status = http.StatusInternalServerError
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
