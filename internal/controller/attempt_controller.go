package controller

import (
	"errors"
	"strconv"
	"testwave_backend/internal/service"
	"testwave_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

// AttemptController is the student-facing surface: taking a test, the live
// completeness check and final submission.
type AttemptController struct {
	Tests   *service.TestService
	Scoring *service.ScoringService
}

func NewAttemptController(tests *service.TestService, scoring *service.ScoringService) *AttemptController {
	return &AttemptController{Tests: tests, Scoring: scoring}
}

func (c *AttemptController) ListPublished(ctx *gin.Context) {
	tests, err := c.Tests.ListPublishedTests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// GetTestView returns the answer-stripped, optionally shuffled projection.
// The client echoes the seed back on subsequent calls so the order stays
// fixed for the whole attempt.
func (c *AttemptController) GetTestView(ctx *gin.Context) {
	seed, err := strconv.ParseInt(ctx.Query("seed"), 10, 64)
	if err != nil || seed == 0 {
		seed = time.Now().UnixNano()
	}

	view, err := c.Tests.StudentView(ctx.Param("id"), seed)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		if errors.Is(err, util.ErrTestNotPublished) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

func (c *AttemptController) CheckCompleteness(ctx *gin.Context) {
	var req service.SubmitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.Tests.CheckCompleteness(ctx.Param("id"), req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

func (c *AttemptController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Scoring.SubmitTest(user.UserID, ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTestNotPublished):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrMissingIdentity):
			util.Unauthorized(ctx)
		case errors.Is(err, util.ErrSubmissionInFlight), errors.Is(err, util.ErrAlreadySubmitted):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}
