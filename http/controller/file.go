package controller

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/EldoranCodes/FileStorageApi/http/controller/dto"
	"github.com/EldoranCodes/FileStorageApi/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// storedToken strips the extension from a stored name, leaving the random
// token it was generated from.
func storedToken(storedName string) string {
	return strings.TrimSuffix(storedName, filepath.Ext(storedName))
}

func (ctrl *Controller) ListFiles(c *gin.Context) {
	ctx := c.Request.Context()

	consumer, appName, ok := ctrl.caller(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: missing authenticated consumer")
		return
	}

	files, err := ctrl.Service.File.ListFiles(ctx, consumer, appName)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to list files for consumer %s: %v", consumer.ID, err)
		respondServiceError(c, err)
		return
	}

	items := make([]dto.FileListItemDto, 0, len(files))
	for _, f := range files {
		items = append(items, dto.FileListItemDto{
			ID:           f.FileID.String(),
			OriginalName: f.OriginalName,
			StoredName:   f.StoredName,
			ContentType:  f.ContentType,
			FileSize:     f.FileSize,
			CreatedAt:    f.UploadTimestamp.Format(time.RFC3339),
			StreamURL:    "/api/v1/storage/stream/" + f.StoredName,
		})
	}

	utils.JSON200(c, "Files retrieved", items)
}

func (ctrl *Controller) GetFileInfo(c *gin.Context) {
	ctx := c.Request.Context()

	consumer, _, ok := ctrl.caller(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: missing authenticated consumer")
		return
	}

	fileID, err := uuid.Parse(c.Param("file_id"))
	if err != nil {
		utils.JSON400(c, "Invalid file_id format")
		return
	}

	file, err := ctrl.Service.File.GetFileInfo(ctx, consumer, fileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, "File retrieved", dto.FileMetadataDto{
		FileID:          file.FileID.String(),
		OriginalName:    file.OriginalName,
		UUID:            storedToken(file.StoredName),
		Path:            file.Path,
		UploadTimestamp: file.UploadTimestamp.Format(time.RFC3339),
	})
}

// StreamFile serves the raw bytes inline with the original filename.
func (ctrl *Controller) StreamFile(c *gin.Context) {
	ctx := c.Request.Context()

	consumer, _, ok := ctrl.caller(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: missing authenticated consumer")
		return
	}

	storedName := c.Param("stored_name")
	if storedName == "" {
		utils.JSON400(c, "stored_name is required")
		return
	}

	stream, err := ctrl.Service.File.StreamFile(ctx, consumer, storedName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer stream.Reader.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", stream.OriginalName),
	}
	c.DataFromReader(http.StatusOK, stream.Size, stream.ContentType, stream.Reader, extraHeaders)
}

func (ctrl *Controller) DeleteFile(c *gin.Context) {
	ctx := c.Request.Context()

	consumer, _, ok := ctrl.caller(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: missing authenticated consumer")
		return
	}

	fileID, err := uuid.Parse(c.Param("file_id"))
	if err != nil {
		utils.JSON400(c, "Invalid file_id format")
		return
	}

	result, err := ctrl.Service.File.DeleteFile(ctx, consumer, fileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, result.Message, nil)
}
