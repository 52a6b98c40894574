package controllers

import (
	apperrors "market/errors"
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// UploadImages nhận multipart field "files" (một hoặc nhiều ảnh)
func (ctrl *UploadController) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.FromError(c, apperrors.NewValidationError(map[string]string{"files": "multipart form expected"}))
		return
	}
	urls, err := ctrl.uploads.UploadImages(c.Request.Context(), form.File["files"])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"urls": urls})
}
