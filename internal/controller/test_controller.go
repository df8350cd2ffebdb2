package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"testwave_backend/internal/model"
	"testwave_backend/internal/service"
	"testwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TestController covers the admin authoring surface: test CRUD, publishing
// and hotspot image upload.
type TestController struct {
	Service *service.TestService
	Storage *service.StorageService
}

func NewTestController(svc *service.TestService, storage *service.StorageService) *TestController {
	return &TestController{Service: svc, Storage: storage}
}

func (c *TestController) CreateTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.CreateTest(user.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, test)
}

func (c *TestController) UpdateTest(ctx *gin.Context) {
	id := ctx.Param("id")

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.UpdateTest(id, req)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, test)
}

func (c *TestController) DeleteTest(ctx *gin.Context) {
	if err := c.Service.DeleteTest(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *TestController) GetTest(ctx *gin.Context) {
	test, qs, err := c.Service.GetTest(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"test": test, "questions": qs})
}

func (c *TestController) ListTests(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	tests, total, err := c.Service.ListTests(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": tests, "total": total})
}

// UploadImage stores a hotspot background image under a generated name.
func (c *TestController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "no file provided")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("questions/%s%s", model.GenerateUUID(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	url, err := c.Storage.UploadQuestionImage(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
