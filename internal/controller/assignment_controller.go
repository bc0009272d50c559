package controller

import (
	"errors"

	"edu_manage_backend/internal/service"
	"edu_manage_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

func replyAssignmentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAssignmentNotFound), errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrDeadlinePassed):
		util.Error(ctx, 403, "deadline has passed")
	case errors.Is(err, util.ErrNoFileSelected):
		util.BadRequest(ctx, "no file selected")
	case errors.Is(err, util.ErrBadFileFormat):
		util.BadRequest(ctx, "file format not accepted")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create an assignment (tutor)
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "course id"
// @Param body body service.AssignmentInput true "assignment fields"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Router /api/courses/{id}/assignments [post]
// @Security BearerAuth
func (c *AssignmentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	var input service.AssignmentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Create(courseID, claims, input)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// ListForCourse godoc
// @Summary Assignments of a course
// @Tags assignments
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/courses/{id}/assignments [get]
// @Security BearerAuth
func (c *AssignmentController) ListForCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	assignments, err := c.AssignmentService.ListForCourse(courseID)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// Get godoc
// @Summary Fetch one assignment
// @Tags assignments
// @Produce json
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id} [get]
// @Security BearerAuth
func (c *AssignmentController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	assignment, err := c.AssignmentService.GetByID(id)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Update godoc
// @Summary Update an assignment (owning tutor)
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "assignment id"
// @Param body body service.AssignmentInput true "assignment fields"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id} [put]
// @Security BearerAuth
func (c *AssignmentController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var input service.AssignmentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Update(id, claims, input)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Delete godoc
// @Summary Delete an assignment and its submissions (owning tutor)
// @Tags assignments
// @Produce json
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [delete]
// @Security BearerAuth
func (c *AssignmentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.AssignmentService.Delete(id, claims); err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AttachHandout godoc
// @Summary Upload an instructions file for an assignment (owning tutor)
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "assignment id"
// @Param file formData file true "handout file"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id}/handout [post]
// @Security BearerAuth
func (c *AssignmentController) AttachHandout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "no file selected")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	assignment, err := c.AssignmentService.AttachInstructionsFile(
		ctx.Request.Context(), id, claims, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Status godoc
// @Summary Whether the caller can submit right now (student)
// @Tags assignments
// @Produce json
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response{data=service.SubmissionStatus}
// @Router /api/assignments/{id}/status [get]
// @Security BearerAuth
func (c *AssignmentController) Status(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	status, err := c.AssignmentService.Status(id, claims.UserID)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// Submit godoc
// @Summary Submit (or resubmit) a file for an assignment (student)
// @Description First submissions are rejected after the deadline. A
// @Description student who already submitted may resubmit past it; the
// @Description attempt is stored and marked late.
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "assignment id"
// @Param file formData file true "submission file"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Failure 403 {object} util.Response "deadline has passed"
// @Router /api/assignments/{id}/submit [post]
// @Security BearerAuth
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "no file selected")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	sub, err := c.AssignmentService.Submit(
		ctx.Request.Context(), id, claims.UserID, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// Submissions godoc
// @Summary All submissions of an assignment (owning tutor)
// @Tags assignments
// @Produce json
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response{data=[]model.AssignmentSubmission}
// @Router /api/assignments/{id}/submissions [get]
// @Security BearerAuth
func (c *AssignmentController) Submissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	subs, err := c.AssignmentService.ListSubmissions(id, claims)
	if err != nil {
		replyAssignmentError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
