package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "Profile data"
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Router /api/users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateName(claims.UserID, req.Name)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary Upload an avatar image
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "Image file"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid upload"
// @Router /api/users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "missing avatar file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, "unreadable avatar file")
		return
	}
	defer file.Close()

	url, err := c.UserService.UploadAvatar(
		ctx.Request.Context(),
		claims.UserID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}
