package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SessionController drives the in-memory challenge-solving sessions: open
// (with resume), live code updates, explicit saves, submission, teardown.
type SessionController struct {
	Sessions          *service.SessionManager
	ExerciseService   *service.ExerciseService
	ExecutionService  *service.ExecutionService
	SubmissionService *service.SubmissionService
}

func NewSessionController(
	sessions *service.SessionManager,
	exerciseService *service.ExerciseService,
	executionService *service.ExecutionService,
	submissionService *service.SubmissionService,
) *SessionController {
	return &SessionController{
		Sessions:          sessions,
		ExerciseService:   exerciseService,
		ExecutionService:  executionService,
		SubmissionService: submissionService,
	}
}

// swagger:model OpenSessionRequest
type OpenSessionRequest struct {
	ExerciseID uint `json:"exerciseId" binding:"required"`
}

// Open godoc
// @Summary Open a challenge session
// @Description Starts (or resumes from a saved draft) a solving session for an exercise
// @Tags sessions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body OpenSessionRequest true "Exercise to open"
// @Success 201 {object} util.Response{data=service.SessionState} "Created"
// @Failure 404 {object} util.Response "Exercise not found"
// @Failure 409 {object} util.Response "Session already open"
// @Router /api/sessions [post]
func (c *SessionController) Open(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req OpenSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.ExerciseService.GetByID(req.ExerciseID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	session, err := c.Sessions.Open(ctx.Request.Context(), claims.UserID, &view.Exercise, view.Completed)
	if err != nil {
		if errors.Is(err, util.ErrSessionAlreadyOpen) {
			util.Conflict(ctx, "a session is already open for this exercise")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, session.State())
}

// GetState godoc
// @Summary Current session state
// @Tags sessions
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "Exercise ID"
// @Success 200 {object} util.Response{data=service.SessionState} "Success"
// @Failure 404 {object} util.Response "No open session"
// @Router /api/sessions/{exerciseId} [get]
func (c *SessionController) GetState(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	util.Success(ctx, session.State())
}

// swagger:model UpdateCodeRequest
type UpdateCodeRequest struct {
	Code string `json:"code"`
}

// UpdateCode godoc
// @Summary Replace the session's working code
// @Tags sessions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "Exercise ID"
// @Param   body body UpdateCodeRequest true "New code"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "No open session"
// @Router /api/sessions/{exerciseId}/code [put]
func (c *SessionController) UpdateCode(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var req UpdateCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session.UpdateCode(req.Code)
	util.Success(ctx, nil)
}

// Save godoc
// @Summary Save the session's progress
// @Description Persists the draft; concurrent saves are rejected, not queued
// @Tags sessions
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "Exercise ID"
// @Success 200 {object} util.Response{data=model.ChallengeAttempt} "Success"
// @Failure 404 {object} util.Response "No open session"
// @Failure 409 {object} util.Response "Save already in flight or challenge completed"
// @Router /api/sessions/{exerciseId}/save [post]
func (c *SessionController) Save(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	attempt, err := session.SaveProgress(ctx.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSaveInFlight):
			util.Conflict(ctx, "a save is already in flight")
		case errors.Is(err, util.ErrChallengeCompleted):
			util.Conflict(ctx, "challenge already completed")
		case errors.Is(err, util.ErrSessionClosed):
			util.Conflict(ctx, "session is closed")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// Submit godoc
// @Summary Submit the session's code
// @Description Runs the code in the sandbox; an accepted run records a submission, awards XP and ends the session
// @Tags sessions
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "Exercise ID"
// @Success 200 {object} util.Response{data=service.SubmissionOutcome} "Success"
// @Failure 404 {object} util.Response "No open session"
// @Failure 409 {object} util.Response "Challenge already completed"
// @Failure 502 {object} util.Response "Sandbox unavailable"
// @Router /api/sessions/{exerciseId}/submit [post]
func (c *SessionController) Submit(ctx *gin.Context) {
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

	session, err := c.Sessions.Get(claims.UserID, uint(exerciseID))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	view, err := c.ExerciseService.GetByID(uint(exerciseID), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	outcome, err := session.Submit(ctx.Request.Context(), &view.Exercise, c.ExecutionService, c.SubmissionService)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeCompleted):
			util.Conflict(ctx, "challenge already completed")
		case errors.Is(err, util.ErrSessionClosed):
			util.Conflict(ctx, "session is closed")
		default:
			util.Error(ctx, 502, "code execution failed: "+err.Error())
		}
		return
	}

	util.Success(ctx, outcome)
}

// Close godoc
// @Summary Close a session
// @Description Tears the session down; an abandoned session with progress is autosaved
// @Tags sessions
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "Exercise ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "No open session"
// @Router /api/sessions/{exerciseId} [delete]
func (c *SessionController) Close(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	session.Close(service.CloseAbandoned)
	util.Success(ctx, nil)
}

func (c *SessionController) session(ctx *gin.Context) (*service.Session, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, false
	}

	exerciseID, err := strconv.ParseUint(ctx.Param("exerciseId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid exercise id")
		return nil, false
	}

	session, err := c.Sessions.Get(claims.UserID, uint(exerciseID))
	if err != nil {
		util.NotFound(ctx)
		return nil, false
	}
	return session, true
}
