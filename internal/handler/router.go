package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillport/institute-api/internal/middleware"
	"github.com/skillport/institute-api/internal/models"
	"github.com/skillport/institute-api/internal/service"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	Auth        *AuthHandler
	Courses     *CourseHandler
	Instructors *InstructorHandler
	Curriculum  *CurriculumHandler
	Enrollments *EnrollmentHandler
	Vouchers    *VoucherHandler
	Slips       *PaymentSlipHandler
	Metrics     *MetricsHandler

	AuthService *service.AuthService
}

// RegisterRoutes wires the API surface under the given prefix.
//
// Three tiers: fully public (catalog, wizard, token downloads), and an
// admin group behind JWT + role checks. The wizard stays unauthenticated
// so applicants can enroll without an account.
func RegisterRoutes(r *gin.Engine, prefix string, deps RouterDeps) {
	api := r.Group(prefix)

	api.POST("/auth/login", deps.Auth.Login)
	api.GET("/courses", deps.Courses.Catalog)

	// Enrollment wizard: FORM -> VOUCHER -> UPLOAD -> DONE.
	api.POST("/enrollments", deps.Enrollments.Create)
	api.GET("/enrollments/:id", deps.Enrollments.Get)
	api.GET("/enrollments/:id/voucher", deps.Vouchers.View)
	api.POST("/enrollments/:id/voucher/confirm", deps.Vouchers.Confirm)
	api.GET("/enrollments/:id/voucher/pdf", deps.Vouchers.PDF)
	api.POST("/enrollments/:id/payment-slip", deps.Slips.Upload)

	// Signed-URL download authenticates via the token itself.
	api.GET("/payment-slips/download", deps.Slips.Download)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(deps.AuthService))
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/enrollments", deps.Enrollments.List)
		admin.GET("/payment-slips", deps.Slips.List)
		admin.GET("/payment-slips/:id/download-url", deps.Slips.DownloadURL)

		admin.GET("/courses", deps.Courses.List)
		admin.POST("/courses", deps.Courses.Create)
		admin.GET("/courses/:id", deps.Courses.Get)
		admin.PUT("/courses/:id", deps.Courses.Update)
		admin.DELETE("/courses/:id", deps.Courses.Delete)

		admin.GET("/instructors", deps.Instructors.List)
		admin.POST("/instructors", deps.Instructors.Create)
		admin.GET("/instructors/:id", deps.Instructors.Get)
		admin.PUT("/instructors/:id", deps.Instructors.Update)
		admin.DELETE("/instructors/:id", deps.Instructors.Delete)

		admin.GET("/modules", deps.Curriculum.ListModules)
		admin.POST("/modules", deps.Curriculum.CreateModule)
		admin.PUT("/modules/:id", deps.Curriculum.UpdateModule)
		admin.DELETE("/modules/:id", deps.Curriculum.DeleteModule)

		admin.GET("/quizzes", deps.Curriculum.ListQuizzes)
		admin.POST("/quizzes", deps.Curriculum.CreateQuiz)
		admin.PUT("/quizzes/:id", deps.Curriculum.UpdateQuiz)
		admin.DELETE("/quizzes/:id", deps.Curriculum.DeleteQuiz)

		admin.GET("/assignments", deps.Curriculum.ListAssignments)
		admin.POST("/assignments", deps.Curriculum.CreateAssignment)
		admin.PUT("/assignments/:id", deps.Curriculum.UpdateAssignment)
		admin.DELETE("/assignments/:id", deps.Curriculum.DeleteAssignment)
	}

	r.GET("/metrics", deps.Metrics.Prometheus)
	r.GET("/health", deps.Metrics.Health)
}
