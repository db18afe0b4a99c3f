package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/internal/app/service"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/validation"
)

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// PrepareUpload tells the client where to send an image
// POST /api/media/upload
func (ctrl *UploadController) PrepareUpload(c *gin.Context) {
	var input service.UploadInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	info, err := ctrl.uploadService.PrepareUpload(c.Request.Context(), input, requestOrigin(c))
	if err != nil {
		apperrors.Respond(c, err, "prepare upload")
		return
	}
	c.JSON(http.StatusOK, info)
}

// UploadLocal receives the file for a key issued by PrepareUpload
// POST /api/media/upload/local (multipart: key, file)
func (ctrl *UploadController) UploadLocal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	errs := validation.NewErrors()
	key := c.PostForm("key")
	if key == "" {
		errs.Add(validation.Required("key"))
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errs.Add(validation.Required("file"))
	}
	if err := errs.Err(); err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.Respond(c, err, "read upload")
		return
	}
	defer file.Close()

	if err := ctrl.uploadService.SaveLocal(c.Request.Context(), key, file); err != nil {
		apperrors.Respond(c, err, "store upload")
		return
	}

	log.Info("Local upload stored", map[string]interface{}{
		"key":  key,
		"size": fileHeader.Size,
	})
	c.JSON(http.StatusOK, gin.H{"status": "ok", "key": key})
}
