package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillport/institute-api/internal/service"
	appErrors "github.com/skillport/institute-api/pkg/errors"
	"github.com/skillport/institute-api/pkg/response"
)

// CurriculumHandler exposes the admin CRUD for modules, quizzes and
// assignments attached to a course.
type CurriculumHandler struct {
	curriculum *service.CurriculumService
}

// NewCurriculumHandler constructs CurriculumHandler.
func NewCurriculumHandler(curriculum *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculum}
}

// ListModules godoc
// @Summary List modules for a course
// @Tags Curriculum
// @Produce json
// @Param courseId query string false "Course ID"
// @Success 200 {object} response.Envelope
// @Router /admin/modules [get]
func (h *CurriculumHandler) ListModules(c *gin.Context) {
	modules, err := h.curriculum.ListModules(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// CreateModule godoc
// @Summary Create a module
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.ModuleRequest true "Module"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/modules [post]
func (h *CurriculumHandler) CreateModule(c *gin.Context) {
	var req service.ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.curriculum.CreateModule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body service.ModuleRequest true "Module"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/modules/{id} [put]
func (h *CurriculumHandler) UpdateModule(c *gin.Context) {
	var req service.ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.curriculum.UpdateModule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// DeleteModule godoc
// @Summary Delete a module
// @Tags Curriculum
// @Param id path string true "Module ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/modules/{id} [delete]
func (h *CurriculumHandler) DeleteModule(c *gin.Context) {
	if err := h.curriculum.DeleteModule(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListQuizzes godoc
// @Summary List quizzes for a course
// @Tags Curriculum
// @Produce json
// @Param courseId query string false "Course ID"
// @Success 200 {object} response.Envelope
// @Router /admin/quizzes [get]
func (h *CurriculumHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.curriculum.ListQuizzes(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quizzes, nil)
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.QuizRequest true "Quiz"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/quizzes [post]
func (h *CurriculumHandler) CreateQuiz(c *gin.Context) {
	var req service.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	quiz, err := h.curriculum.CreateQuiz(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, quiz)
}

// UpdateQuiz godoc
// @Summary Update a quiz
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param payload body service.QuizRequest true "Quiz"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/quizzes/{id} [put]
func (h *CurriculumHandler) UpdateQuiz(c *gin.Context) {
	var req service.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	quiz, err := h.curriculum.UpdateQuiz(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quiz, nil)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Tags Curriculum
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/quizzes/{id} [delete]
func (h *CurriculumHandler) DeleteQuiz(c *gin.Context) {
	if err := h.curriculum.DeleteQuiz(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAssignments godoc
// @Summary List assignments for a course
// @Tags Curriculum
// @Produce json
// @Param courseId query string false "Course ID"
// @Success 200 {object} response.Envelope
// @Router /admin/assignments [get]
func (h *CurriculumHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.curriculum.ListAssignments(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// CreateAssignment godoc
// @Summary Create an assignment
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.AssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/assignments [post]
func (h *CurriculumHandler) CreateAssignment(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.curriculum.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// UpdateAssignment godoc
// @Summary Update an assignment
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.AssignmentRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/assignments/{id} [put]
func (h *CurriculumHandler) UpdateAssignment(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.curriculum.UpdateAssignment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// DeleteAssignment godoc
// @Summary Delete an assignment
// @Tags Curriculum
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/assignments/{id} [delete]
func (h *CurriculumHandler) DeleteAssignment(c *gin.Context) {
	if err := h.curriculum.DeleteAssignment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
