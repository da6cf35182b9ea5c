package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// GetAchievements godoc
// @Summary Current user's achievements
// @Description XP total, level, progress toward the next level and the leaderboard
// @Tags achievements
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserAchievements} "Success"
// @Router /api/achievements [get]
func (c *AchievementController) GetAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.GetUserAchievements(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

// GetLeaderboard godoc
// @Summary XP leaderboard
// @Tags achievements
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "Entries" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "Success"
// @Router /api/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	leaderboard, err := c.AchievementService.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, leaderboard)
}
