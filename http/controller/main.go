package controller

import (
	"errors"

	"github.com/EldoranCodes/FileStorageApi/config"
	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/EldoranCodes/FileStorageApi/service"
	"github.com/EldoranCodes/FileStorageApi/utils"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Service    *service.Service
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository, svc *service.Service) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	if svc == nil {
		panic("Failed to initialize Service")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Service:    svc,
	}
}

// caller pulls the authenticated consumer and the credential's application
// name out of the request context, both set by the auth middleware.
func (ctrl *Controller) caller(c *gin.Context) (*entity.Consumer, string, bool) {
	value, ok := c.Get("consumer")
	if !ok {
		return nil, "", false
	}
	consumer, ok := value.(*entity.Consumer)
	if !ok || consumer == nil {
		return nil, "", false
	}
	return consumer, c.GetString("app_name"), true
}

// respondServiceError maps a service failure kind to its HTTP status and
// JSON body.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		utils.JSON401(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.JSON403(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.JSON404(c, err.Error())
	default:
		utils.JSON500(c, err.Error())
	}
}
