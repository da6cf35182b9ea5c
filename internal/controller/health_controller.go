package controller

import (
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce  json
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 503 {object} util.Response "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		util.Error(ctx, 503, "database unreachable")
		return
	}

	util.Success(ctx, gin.H{"status": "ok"})
}
