package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lastleaf-be/internal/middleware"
	"lastleaf-be/internal/models"
	"lastleaf-be/internal/service"
)

type DiaryController struct {
	diaryService service.DiaryService
	log          *zap.Logger
}

func NewDiaryController(diaryService service.DiaryService, log *zap.Logger) *DiaryController {
	return &DiaryController{
		diaryService: diaryService,
		log:          log,
	}
}

// List handles GET /api/diary?cursor=&limit=
func (dc *DiaryController) List(c *gin.Context) {
	page, err := dc.diaryService.List(
		c.Request.Context(),
		middleware.UserID(c),
		c.Query("cursor"),
		service.ParseLimit(c.Query("limit")),
	)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}

	diaries := make([]models.DiaryResponse, len(page.Diaries))
	for i, d := range page.Diaries {
		diaries[i] = models.NewDiaryResponse(d)
	}

	c.JSON(http.StatusOK, models.DiaryListResponse{
		Diaries:    diaries,
		NextCursor: page.NextCursor,
	})
}

// Create handles POST /api/diary
func (dc *DiaryController) Create(c *gin.Context) {
	var req models.DiaryContentRequest
	if !bindJSON(c, &req) {
		return
	}

	diary, err := dc.diaryService.Create(c.Request.Context(), middleware.UserID(c), req.Content)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateDiaryResponse{DiaryID: diary.ID})
}

// Get handles GET /api/diary/:id
func (dc *DiaryController) Get(c *gin.Context) {
	diary, err := dc.diaryService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, dc.log, err)
		return
	}

	c.JSON(http.StatusOK, models.DiaryEnvelope{Diary: models.NewDiaryResponse(diary)})
}

// Update handles PUT /api/diary/:id
func (dc *DiaryController) Update(c *gin.Context) {
	var req models.DiaryContentRequest
	if !bindJSON(c, &req) {
		return
	}

	diary, err := dc.diaryService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}

	c.JSON(http.StatusOK, models.DiaryEnvelope{Diary: models.NewDiaryResponse(diary)})
}
