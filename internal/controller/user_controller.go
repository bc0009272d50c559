package controller

import (
	"errors"
	"strconv"

	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/service"
	"edu_manage_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary List users (admin)
// @Tags users
// @Produce json
// @Param page query int false "page number"
// @Param page_size query int false "page size"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/users [get]
// @Security BearerAuth
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	users, total, err := c.UserService.List(page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"users": users,
		"total": total,
	})
}

// Get godoc
// @Summary Fetch one user
// @Tags users
// @Produce json
// @Param id path int true "user id"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [get]
// @Security BearerAuth
func (c *UserController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	user, err := c.UserService.GetByID(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body service.UpdateProfileInput true "profile fields"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/me/profile [put]
// @Security BearerAuth
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student tutor admin"`
}

// SetRole godoc
// @Summary Change a user's role (admin)
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "user id"
// @Param body body SetRoleRequest true "new role"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id}/role [put]
// @Security BearerAuth
func (c *UserController) SetRole(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetRole(id, model.UserRole(req.Role))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetDisabled godoc
// @Summary Enable or disable an account (admin)
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "user id"
// @Param body body SetDisabledRequest true "disabled flag"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/disabled [put]
// @Security BearerAuth
func (c *UserController) SetDisabled(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetDisabled(id, *req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
