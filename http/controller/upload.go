package controller

import (
	"time"

	"github.com/EldoranCodes/FileStorageApi/http/controller/dto"
	"github.com/EldoranCodes/FileStorageApi/service"
	"github.com/EldoranCodes/FileStorageApi/utils"
	"github.com/gin-gonic/gin"
)

// UploadFiles accepts one or more multipart file parts under the "files"
// field and stores them as a single batch.
func (ctrl *Controller) UploadFiles(c *gin.Context) {
	ctx := c.Request.Context()

	consumer, appName, ok := ctrl.caller(c)
	if !ok {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Upload] Authenticated consumer not found in context")
		utils.JSON401(c, "Unauthorized: missing authenticated consumer")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to parse multipart form: %v", err)
		utils.JSON400(c, "Failed to parse multipart form: "+err.Error())
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		utils.JSON400(c, "No files provided")
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		stream, err := header.Open()
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to open part '%s': %v", header.Filename, err)
			utils.JSON400(c, "Failed to read file '"+header.Filename+"'")
			return
		}
		defer stream.Close()

		files = append(files, service.UploadFile{
			OriginalName: header.Filename,
			ContentType:  header.Header.Get("Content-Type"),
			Size:         header.Size,
			Reader:       stream,
		})
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Consumer %s uploading %d files for app '%s'",
		consumer.ID, len(files), appName)

	result, err := ctrl.Service.Upload.Upload(ctx, consumer, appName, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := dto.BatchResponseDto{
		BatchID: result.BatchID.String(),
		Status:  result.Status,
		Files:   make([]dto.UploadedFileDto, 0, len(result.Files)),
	}
	for _, f := range result.Files {
		response.Files = append(response.Files, dto.UploadedFileDto{
			FileID:          f.FileID.String(),
			OriginalName:    f.OriginalName,
			UUID:            storedToken(f.StoredName),
			Path:            f.Path,
			UploadTimestamp: f.UploadTimestamp.Format(time.RFC3339),
		})
	}

	utils.JSON200(c, "Upload processed", response)
}
