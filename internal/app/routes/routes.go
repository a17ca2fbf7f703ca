package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tmusoke/shulepoint/internal/app/controllers"
	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/models/dto"
	"github.com/tmusoke/shulepoint/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	academicController *controllers.AcademicController,
	studentController *controllers.StudentController,
	feeStructureController *controllers.FeeStructureController,
	feeController *controllers.FeeController,
	billingController *controllers.BillingController,
	catalogController *controllers.CatalogController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetProfile)

		// Account registration is an admin-only operation
		adminAuth := authenticated.Group("/auth")
		adminAuth.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			adminAuth.POST("/register", authController.Register)
		}

		// Academic structure routes
		academicYears := authenticated.Group("/academic-years")
		{
			academicYears.GET("", academicController.GetAcademicYears)
			academicYears.GET("/:yearId/terms", academicController.GetTermsByAcademicYear)
			academicYears.GET("/:yearId/classes", academicController.GetClassesByAcademicYear)
			academicYears.GET("/:yearId/fee-structures", feeStructureController.GetStructuresByAcademicYear)

			academicYearsAdmin := academicYears.Group("")
			academicYearsAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				academicYearsAdmin.POST("", academicController.CreateAcademicYear)
			}
		}

		termsAdmin := authenticated.Group("/terms")
		termsAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			termsAdmin.POST("", academicController.CreateTerm)
		}

		classesAdmin := authenticated.Group("/classes")
		classesAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			classesAdmin.POST("", academicController.CreateClass)
		}

		// Campus, transport and activity catalog routes
		campuses := authenticated.Group("/campuses")
		{
			campuses.GET("", catalogController.GetCampuses)

			campusesAdmin := campuses.Group("")
			campusesAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				campusesAdmin.POST("", catalogController.CreateCampus)
			}
		}

		transportRoutes := authenticated.Group("/transport-routes")
		{
			transportRoutes.GET("", catalogController.GetTransportRoutes)

			transportRoutesAdmin := transportRoutes.Group("")
			transportRoutesAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleBursar)))
			{
				transportRoutesAdmin.POST("", catalogController.CreateTransportRoute)
			}
		}

		clubActivities := authenticated.Group("/club-activities")
		{
			clubActivities.GET("/terms/:termId", catalogController.GetClubActivitiesByTerm)

			clubActivitiesAdmin := clubActivities.Group("")
			clubActivitiesAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleBursar)))
			{
				clubActivitiesAdmin.POST("", catalogController.CreateClubActivity)
			}
		}

		// Student routes
		students := authenticated.Group("/students")
		{
			students.GET("", studentController.GetStudents)
			students.GET("/:id", studentController.GetStudentByID)
			students.POST("", studentController.CreateStudent)
			students.PUT("/:id/class", studentController.AssignClass)
			students.POST("/:id/enrollments", studentController.Enroll)
			students.PUT("/:id/transport", studentController.AssignTransport)
			students.POST("/:id/club-activities", studentController.JoinClubActivity)
			students.DELETE("/:id/club-activities/:activityId", studentController.LeaveClubActivity)
		}

		// Fee structure authoring routes, bursar and admin only
		feeStructures := authenticated.Group("/fee-structures")
		feeStructures.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleBursar)))
		{
			feeStructures.POST("", feeStructureController.CreateStructure)
			feeStructures.GET("/:id", feeStructureController.GetStructureByID)
			feeStructures.POST("/:id/versions", feeStructureController.CreateVersion)
			feeStructures.DELETE("/:id", feeStructureController.DeactivateStructure)
		}

		// Fee calculation and payment routes
		fees := authenticated.Group("/fees")
		{
			fees.POST("/compute", feeController.ComputeFee)
			fees.POST("/compute/students/:studentId/terms/:termId", feeController.ComputeFeeForStudent)
			fees.GET("/students/:studentId/terms/:termId", feeController.GetFee)
			fees.GET("/students/:studentId/terms/:termId/payments", feeController.GetPayments)
			fees.GET("/terms/:termId", feeController.GetFeesByTerm)

			feesBursar := fees.Group("")
			feesBursar.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleBursar)))
			{
				feesBursar.POST("/payments", feeController.RecordPayment)
				feesBursar.POST("/one-off-payments", feeController.MarkOneOffPaid)
			}
		}

		// Discount and adjustment routes, bursar and admin only
		discounts := authenticated.Group("/discounts")
		discounts.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleBursar)))
		{
			discounts.POST("", billingController.CreateGlobalDiscount)
			discounts.PUT("/:id/active", billingController.SetDiscountActive)
			discounts.GET("/terms/:termId", billingController.GetActiveDiscountsByTerm)
		}

		adjustments := authenticated.Group("/adjustments")
		adjustments.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleBursar)))
		{
			adjustments.POST("", billingController.CreateAdjustment)
			adjustments.DELETE("/:id", billingController.DeleteAdjustment)
			adjustments.GET("/students/:studentId/terms/:termId", billingController.GetAdjustments)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
