package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AttemptController exposes saved drafts directly, mirroring the session
// engine's persistence without requiring an open session.
type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// GetCurrent godoc
// @Summary Get the saved draft for an exercise
// @Description Returns the in-progress attempt, 404 when none exists
// @Tags attempts
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId query int true "Exercise ID"
// @Success 200 {object} util.Response{data=model.ChallengeAttempt} "Success"
// @Failure 404 {object} util.Response "No saved attempt"
// @Router /api/attempts/current [get]
func (c *AttemptController) GetCurrent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exerciseID, err := strconv.ParseUint(ctx.Query("exerciseId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid exercise id")
		return
	}

	attempt, err := c.AttemptService.GetCurrent(ctx.Request.Context(), claims.UserID, uint(exerciseID))
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// swagger:model SaveAttemptRequest
type SaveAttemptRequest struct {
	ExerciseID  uint   `json:"exerciseId" binding:"required"`
	Code        string `json:"code"`
	TimeSpentMs int64  `json:"timeSpentMs" binding:"omitempty,min=0"`
}

// Save godoc
// @Summary Save a draft
// @Description Creates or overwrites the single draft per exercise
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SaveAttemptRequest true "Draft data"
// @Success 200 {object} util.Response{data=model.ChallengeAttempt} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Router /api/attempts [post]
func (c *AttemptController) Save(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SaveAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.Save(ctx.Request.Context(), claims.UserID, req.ExerciseID, req.Code, req.TimeSpentMs)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempt)
}

// Delete godoc
// @Summary Discard a draft
// @Description Removes the saved attempt; deleting a missing one succeeds
// @Tags attempts
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "Exercise ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/attempts/{exerciseId} [delete]
func (c *AttemptController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exerciseID, err := strconv.ParseUint(ctx.Param("exerciseId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid exercise id")
		return
	}

	if err := c.AttemptService.Delete(ctx.Request.Context(), claims.UserID, uint(exerciseID)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
