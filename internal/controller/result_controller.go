package controller

import (
	"strconv"
	"testwave_backend/internal/model"
	"testwave_backend/internal/service"
	"testwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	Scoring *service.ScoringService
}

func NewResultController(scoring *service.ScoringService) *ResultController {
	return &ResultController{Scoring: scoring}
}

// MyResults lists the requesting student's own result history.
func (c *ResultController) MyResults(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	results, total, err := c.Scoring.ListUserResults(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": results, "total": total})
}

// GetResult returns a result with its question breakdown. Students may only
// read their own results; admins may read any.
func (c *ResultController) GetResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Scoring.GetResult(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	if user.Role != model.Admin && result.UserID != user.UserID {
		util.Forbidden(ctx)
		return
	}

	util.Success(ctx, result)
}

// TestResults lists all results for one test (admin reporting).
func (c *ResultController) TestResults(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	results, total, err := c.Scoring.ListTestResults(ctx.Param("id"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": results, "total": total})
}

// DeleteResult is admin housekeeping.
func (c *ResultController) DeleteResult(ctx *gin.Context) {
	if err := c.Scoring.DeleteResult(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
