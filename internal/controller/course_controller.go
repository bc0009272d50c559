package controller

import (
	"errors"
	"strconv"

	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/service"
	"edu_manage_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

func replyCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create a course (tutor)
// @Tags courses
// @Accept json
// @Produce json
// @Param body body service.CourseInput true "course fields"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/courses [post]
// @Security BearerAuth
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var input service.CourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, input)
	if err != nil {
		replyCourseError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// List godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Param page query int false "page number"
// @Param page_size query int false "page size"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses [get]
// @Security BearerAuth
func (c *CourseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	courses, total, err := c.CourseService.List(page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"courses": courses,
		"total":   total,
	})
}

// Get godoc
// @Summary Fetch one course
// @Tags courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
// @Security BearerAuth
func (c *CourseController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		replyCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Update godoc
// @Summary Update a course (owning tutor)
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "course id"
// @Param body body service.CourseInput true "course fields"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
// @Security BearerAuth
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var input service.CourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(id, claims, input)
	if err != nil {
		replyCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary Delete a course (owning tutor)
// @Tags courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
// @Security BearerAuth
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.Delete(id, claims); err != nil {
		replyCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Enroll godoc
// @Summary Enroll the caller in a course (student)
// @Tags courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
// @Security BearerAuth
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.Enroll(id, claims.UserID); err != nil {
		replyCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Unenroll godoc
// @Summary Leave a course (student)
// @Tags courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [delete]
// @Security BearerAuth
func (c *CourseController) Unenroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.Unenroll(id, claims.UserID); err != nil {
		replyCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Mine godoc
// @Summary Courses visible to the caller
// @Description Students get their enrollments, tutors the courses they own.
// @Tags courses
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/me/courses [get]
// @Security BearerAuth
func (c *CourseController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var courses []model.Course
	var err error
	if claims.Role == model.Student {
		courses, err = c.CourseService.CoursesForStudent(claims.UserID)
	} else {
		courses, err = c.CourseService.CoursesForTutor(claims.UserID)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Students godoc
// @Summary Enrolled students of a course (tutor)
// @Tags courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/courses/{id}/students [get]
// @Security BearerAuth
func (c *CourseController) Students(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	students, err := c.CourseService.Students(id)
	if err != nil {
		replyCourseError(ctx, err)
		return
	}
	util.Success(ctx, students)
}
