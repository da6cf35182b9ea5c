package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService *service.ExerciseService
}

func NewExerciseController(exerciseService *service.ExerciseService) *ExerciseController {
	return &ExerciseController{ExerciseService: exerciseService}
}

// Create godoc
// @Summary Create an exercise
// @Description Authors a new coding exercise with a shareable public code
// @Tags exercises
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ExerciseRequest true "Exercise data"
// @Success 201 {object} util.Response{data=model.Exercise} "Created"
// @Failure 400 {object} util.Response "Invalid request"
// @Router /api/exercises [post]
func (c *ExerciseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.Create(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, exercise)
}

// Update godoc
// @Summary Update an exercise
// @Tags exercises
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Exercise ID"
// @Param   body body service.ExerciseRequest true "Exercise data"
// @Success 200 {object} util.Response{data=model.Exercise} "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/exercises/{id} [put]
func (c *ExerciseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid exercise id")
		return
	}

	var req service.ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.Update(uint(id), claims.UserID, claims.Role, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExerciseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, exercise)
}

// List godoc
// @Summary List published exercises
// @Description Published exercises with per-user completion flags
// @Tags exercises
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/exercises [get]
func (c *ExerciseController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	exercises, total, err := c.ExerciseService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: exercises, Total: total, Page: page, Limit: limit})
}

// ListMine godoc
// @Summary List exercises authored by the current user
// @Tags exercises
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/exercises/mine [get]
func (c *ExerciseController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	exercises, total, err := c.ExerciseService.ListByCreator(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: exercises, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Get an exercise
// @Tags exercises
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Exercise ID"
// @Success 200 {object} util.Response{data=service.ExerciseView} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/exercises/{id} [get]
func (c *ExerciseController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid exercise id")
		return
	}

	view, err := c.ExerciseService.GetByID(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// GetByCode godoc
// @Summary Resolve an exercise by its shareable code
// @Tags exercises
// @Produce  json
// @Security ApiKeyAuth
// @Param   code path string true "Public code"
// @Success 200 {object} util.Response{data=service.ExerciseView} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/exercises/code/{code} [get]
func (c *ExerciseController) GetByCode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ExerciseService.GetByPublicCode(ctx.Param("code"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// Languages godoc
// @Summary List supported languages
// @Tags exercises
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Language} "Success"
// @Router /api/languages [get]
func (c *ExerciseController) Languages(ctx *gin.Context) {
	languages, err := c.ExerciseService.Languages()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, languages)
}

func pagination(ctx *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
