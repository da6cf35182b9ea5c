package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// ListMine godoc
// @Summary List the current user's submissions
// @Tags submissions
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/submissions [get]
func (c *SubmissionController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	submissions, total, err := c.SubmissionService.ListByUser(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}
