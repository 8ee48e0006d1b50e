package routes

import (
	"net/http"

	"github.com/EldoranCodes/FileStorageApi/http/controller"
	middlewares "github.com/EldoranCodes/FileStorageApi/http/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiRoutes := r.Group("/api/v1/storage")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		apiRoutes.POST("/upload", ctrl.UploadFiles)

		apiRoutes.GET("/files", ctrl.ListFiles)
		apiRoutes.GET("/files/:file_id", ctrl.GetFileInfo)
		apiRoutes.DELETE("/files/:file_id", ctrl.DeleteFile)

		apiRoutes.GET("/stream/:stored_name", ctrl.StreamFile)

		apiRoutes.GET("/batches/:batch_id", ctrl.GetBatchFiles)
		apiRoutes.DELETE("/batches/:batch_id", ctrl.DeleteBatch)
	}

	return r
}
