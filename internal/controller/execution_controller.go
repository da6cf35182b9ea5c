package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ExecutionController struct {
	ExecutionService *service.ExecutionService
}

func NewExecutionController(executionService *service.ExecutionService) *ExecutionController {
	return &ExecutionController{ExecutionService: executionService}
}

// swagger:model ExecuteRequest
type ExecuteRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// Execute godoc
// @Summary Run code in the sandbox
// @Description Ad-hoc execution without touching sessions or submissions
// @Tags execution
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ExecuteRequest true "Code and language"
// @Success 200 {object} util.Response{data=judge0.ExecutionResult} "Success"
// @Failure 400 {object} util.Response "Unsupported language"
// @Failure 502 {object} util.Response "Sandbox unavailable"
// @Router /api/execute [post]
func (c *ExecutionController) Execute(ctx *gin.Context) {
	var req ExecuteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ExecutionService.Run(ctx.Request.Context(), req.Code, req.Language)
	if err != nil {
		if errors.Is(err, util.ErrLanguageUnsupported) {
			util.BadRequest(ctx, "language not supported")
		} else {
			util.Error(ctx, 502, "code execution failed: "+err.Error())
		}
		return
	}

	util.Success(ctx, result)
}
