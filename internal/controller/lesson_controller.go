package controller

import (
	"learnul_backend/internal/service"
	"learnul_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
	QuizService   *service.QuizService
}

func NewLessonController(lessonService *service.LessonService, quizService *service.QuizService) *LessonController {
	return &LessonController{LessonService: lessonService, QuizService: quizService}
}

// QuizSubmission 测验答案，按题目顺序给出选项下标
// swagger:model QuizSubmission
type QuizSubmission struct {
	Answers []int `json:"answers" binding:"required,dive,gte=0"`
}

// GetLesson godoc
// @Summary 课时详情
// @Description 返回课时及同一课程中的上一节和下一节
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonNavigation}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	nav, err := c.LessonService.GetLessonWithNeighbors(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if nav == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nav)
}

// GetQuiz godoc
// @Summary 测验题目
// @Description 不包含正确答案，答案由服务端评分
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.QuizView}
// @Router /api/quizzes/{id} [get]
func (c *LessonController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if quiz == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, quiz.View())
}

// SubmitQuiz godoc
// @Summary 提交测验
// @Tags 学习
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   id path string true "测验ID"
// @Param   body body QuizSubmission true "答案"
// @Success 200 {object} util.Response{data=model.QuizResult}
// @Router /api/quizzes/{id}/submit [post]
func (c *LessonController) SubmitQuiz(ctx *gin.Context) {
	var req QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}
	res, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), principalID(ctx), ctx.Param("id"), req.Answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
