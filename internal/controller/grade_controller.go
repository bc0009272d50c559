package controller

import (
	"errors"

	"edu_manage_backend/internal/service"
	"edu_manage_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	GradeService *service.GradeService
}

func NewGradeController(gradeService *service.GradeService) *GradeController {
	return &GradeController{GradeService: gradeService}
}

func replyGradeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrGradeOutOfRange):
		util.BadRequest(ctx, "grades must be between 0 and 10")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Record godoc
// @Summary Record grade components for a student (tutor)
// @Description Omitted components keep their stored values. The
// @Description composite grade is derived on read, never stored.
// @Tags grades
// @Accept json
// @Produce json
// @Param id path int true "course id"
// @Param userId path int true "student id"
// @Param body body service.GradeInput true "grade components, 0-10 scale"
// @Success 200 {object} util.Response{data=service.GradeView}
// @Router /api/courses/{id}/grades/{userId} [put]
// @Security BearerAuth
func (c *GradeController) Record(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))
	userID := util.MustParseUint(ctx.Param("userId"))

	var input service.GradeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.GradeService.Record(courseID, userID, claims, input)
	if err != nil {
		replyGradeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ForCourse godoc
// @Summary Grade sheet of a whole course (tutor)
// @Tags grades
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=[]service.GradeView}
// @Router /api/courses/{id}/grades [get]
// @Security BearerAuth
func (c *GradeController) ForCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	views, err := c.GradeService.ForCourse(courseID, claims)
	if err != nil {
		replyGradeError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// MineForCourse godoc
// @Summary The caller's grades in a course (student)
// @Tags grades
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=service.GradeView}
// @Router /api/courses/{id}/grades/me [get]
// @Security BearerAuth
func (c *GradeController) MineForCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	view, err := c.GradeService.ForStudent(courseID, claims.UserID)
	if err != nil {
		replyGradeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Mine godoc
// @Summary The caller's grades across all courses (student)
// @Tags grades
// @Produce json
// @Success 200 {object} util.Response{data=[]service.GradeView}
// @Router /api/me/grades [get]
// @Security BearerAuth
func (c *GradeController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	views, err := c.GradeService.ForUser(claims.UserID)
	if err != nil {
		replyGradeError(ctx, err)
		return
	}
	util.Success(ctx, views)
}
