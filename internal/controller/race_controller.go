package controller

import (
	"errors"
	"testwave_backend/internal/service"
	"testwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RaceController struct {
	Race *service.RaceService
}

func NewRaceController(race *service.RaceService) *RaceController {
	return &RaceController{Race: race}
}

func (c *RaceController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.Race.Start(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTestNotPublished):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}

type RaceAdvanceReq struct {
	Answer string `json:"answer"`
}

func (c *RaceController) Advance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RaceAdvanceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	status, err := c.Race.Advance(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRaceSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadySubmitted):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}

func (c *RaceController) Abandon(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Race.Abandon(ctx.Request.Context(), user.UserID, ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
