package controller

import (
	"net/http"
	"time"

	"github.com/EldoranCodes/FileStorageApi/http/controller/dto"
	"github.com/EldoranCodes/FileStorageApi/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (ctrl *Controller) GetBatchFiles(c *gin.Context) {
	ctx := c.Request.Context()

	consumer, _, ok := ctrl.caller(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: missing authenticated consumer")
		return
	}

	batchID, err := uuid.Parse(c.Param("batch_id"))
	if err != nil {
		utils.JSON400(c, "Invalid batch_id format")
		return
	}

	batch, err := ctrl.Service.Batch.GetBatchFiles(ctx, consumer, batchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := dto.BatchFilesResponseDto{
		BatchID: batch.BatchID.String(),
		Status:  batch.Status,
		Files:   make([]dto.FileMetadataDto, 0, len(batch.Files)),
	}
	for _, f := range batch.Files {
		response.Files = append(response.Files, dto.FileMetadataDto{
			FileID:          f.FileID.String(),
			OriginalName:    f.OriginalName,
			UUID:            storedToken(f.StoredName),
			Path:            f.Path,
			UploadTimestamp: f.UploadTimestamp.Format(time.RFC3339),
		})
	}

	utils.JSON200(c, "Batch retrieved", response)
}

func (ctrl *Controller) DeleteBatch(c *gin.Context) {
	ctx := c.Request.Context()

	consumer, _, ok := ctrl.caller(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: missing authenticated consumer")
		return
	}

	batchID, err := uuid.Parse(c.Param("batch_id"))
	if err != nil {
		utils.JSON400(c, "Invalid batch_id format")
		return
	}

	result, err := ctrl.Service.Batch.DeleteBatch(ctx, consumer, batchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The partial flag rides the success field; metadata removal already
	// happened either way.
	c.JSON(http.StatusOK, gin.H{"success": result.Success, "message": result.Message})
}
