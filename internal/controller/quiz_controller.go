package controller

import (
	"errors"

	"edu_manage_backend/internal/quiz"
	"edu_manage_backend/internal/service"
	"edu_manage_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func replyQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizNotPublished):
		util.Error(ctx, 403, "quiz is not published")
	case errors.Is(err, util.ErrQuizAlreadyTaken), errors.Is(err, quiz.ErrAlreadySubmitted):
		util.Error(ctx, 409, "quiz already submitted")
	case errors.Is(err, util.ErrQuizNotStarted), errors.Is(err, quiz.ErrNotInProgress):
		util.Error(ctx, 409, "no attempt in progress")
	case errors.Is(err, util.ErrInvalidTimeLimit),
		errors.Is(err, util.ErrQuestionNeedsOptions),
		errors.Is(err, util.ErrCorrectIndexInvalid):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create a quiz with its questions (tutor)
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "course id"
// @Param body body service.QuizInput true "quiz fields"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/courses/{id}/quizzes [post]
// @Security BearerAuth
func (c *QuizController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	var input service.QuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuizService.Create(courseID, claims, input)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// ListForCourse godoc
// @Summary Quizzes of a course
// @Description Students only see published quizzes.
// @Tags quizzes
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/courses/{id}/quizzes [get]
// @Security BearerAuth
func (c *QuizController) ListForCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	quizzes, err := c.QuizService.ListForCourse(courseID, claims)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Get godoc
// @Summary Fetch one quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes/{id} [get]
// @Security BearerAuth
func (c *QuizController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	q, err := c.QuizService.GetByID(id)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Update godoc
// @Summary Update a quiz (owning tutor)
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "quiz id"
// @Param body body service.QuizInput true "quiz fields"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes/{id} [put]
// @Security BearerAuth
func (c *QuizController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var input service.QuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuizService.Update(id, claims, input)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Delete godoc
// @Summary Delete a quiz (owning tutor)
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [delete]
// @Security BearerAuth
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.QuizService.Delete(id, claims); err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// Publish godoc
// @Summary Publish or unpublish a quiz (owning tutor)
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "quiz id"
// @Param body body PublishRequest true "published flag"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/publish [put]
// @Security BearerAuth
func (c *QuizController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.QuizService.SetPublished(id, claims, *req.Published); err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Questions godoc
// @Summary Questions of a quiz
// @Description The answer key is stripped for students.
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=[]model.QuizQuestion}
// @Router /api/quizzes/{id}/questions [get]
// @Security BearerAuth
func (c *QuizController) Questions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	questions, err := c.QuizService.Questions(id, claims)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// Start godoc
// @Summary Start a quiz attempt (student)
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=service.SessionState}
// @Failure 409 {object} util.Response "already submitted"
// @Router /api/quizzes/{id}/start [post]
// @Security BearerAuth
func (c *QuizController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	state, err := c.QuizService.StartAttempt(ctx.Request.Context(), id, claims)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

type AnswerRequest struct {
	QuestionIndex int `json:"questionIndex"`
	OptionIndex   int `json:"optionIndex"`
}

// Answer godoc
// @Summary Record an answer in a running attempt (student)
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "quiz id"
// @Param body body AnswerRequest true "question and chosen option"
// @Success 200 {object} util.Response{data=service.SessionState}
// @Router /api/quizzes/{id}/answer [put]
// @Security BearerAuth
func (c *QuizController) Answer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	state, err := c.QuizService.RecordAnswer(id, claims, req.QuestionIndex, req.OptionIndex)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// Submit godoc
// @Summary Submit a running attempt (student)
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=service.SubmitOutcome}
// @Failure 409 {object} util.Response "no attempt or already submitted"
// @Router /api/quizzes/{id}/submit [post]
// @Security BearerAuth
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	result, err := c.QuizService.Submit(id, claims)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Abandon godoc
// @Summary Abandon a running attempt without scoring (student)
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/attempt [delete]
// @Security BearerAuth
func (c *QuizController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.QuizService.Abandon(id, claims); err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Result godoc
// @Summary The caller's submitted result for a quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=service.SubmitOutcome}
// @Failure 409 {object} util.Response "not submitted yet"
// @Router /api/quizzes/{id}/result [get]
// @Security BearerAuth
func (c *QuizController) Result(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	result, err := c.QuizService.GetResult(ctx.Request.Context(), id, claims.UserID)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Review godoc
// @Summary Read-only review of the caller's submitted attempt (student)
// @Description Includes the answer key and the caller's choices.
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=service.ReviewView}
// @Failure 409 {object} util.Response "not submitted yet"
// @Router /api/quizzes/{id}/review [get]
// @Security BearerAuth
func (c *QuizController) Review(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	view, err := c.QuizService.ReviewAttempt(id, claims.UserID)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Results godoc
// @Summary All submitted results of a quiz (owning tutor)
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/quizzes/{id}/results [get]
// @Security BearerAuth
func (c *QuizController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	results, err := c.QuizService.ResultsForQuiz(id, claims)
	if err != nil {
		replyQuizError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
