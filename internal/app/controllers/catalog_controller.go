package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/models/dto"
	"github.com/tmusoke/shulepoint/internal/app/services"
	"github.com/tmusoke/shulepoint/internal/middleware"
)

// CatalogController handles transport route, club activity and campus
// operations
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// CreateTransportRoute handles route creation
// @Summary Create a transport route
// @Description Creates a transport route with one-way and two-way term costs
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTransportRouteRequest true "Route information"
// @Success 201 {object} dto.APIResponse{data=models.TransportRoute} "Route created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /transport-routes [post]
func (c *CatalogController) CreateTransportRoute(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransportRouteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid route data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	route := &models.TransportRoute{
		SchoolID:          schoolID,
		RouteName:         req.RouteName,
		OneWayCostPerTerm: req.OneWayCostPerTerm,
		TwoWayCostPerTerm: req.TwoWayCostPerTerm,
	}

	if err := c.catalogService.CreateTransportRoute(ctx, route); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      route,
		Timestamp: time.Now(),
	})
}

// GetTransportRoutes lists the school's routes
// @Summary List transport routes
// @Description Retrieves all transport routes of the caller's school
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.TransportRoute} "Routes retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /transport-routes [get]
func (c *CatalogController) GetTransportRoutes(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	routes, err := c.catalogService.GetTransportRoutes(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      routes,
		Timestamp: time.Now(),
	})
}

// CreateClubActivity handles activity creation
// @Summary Create a club activity
// @Description Creates a billable club or extra-curricular activity for a term
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClubActivityRequest true "Activity information"
// @Success 201 {object} dto.APIResponse{data=models.ClubActivity} "Activity created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /club-activities [post]
func (c *CatalogController) CreateClubActivity(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.CreateClubActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid activity data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	activity := &models.ClubActivity{
		SchoolID:       schoolID,
		ServiceName:    req.ServiceName,
		ActivityType:   req.ActivityType,
		CostPerTerm:    req.CostPerTerm,
		AcademicYearID: req.AcademicYearID,
		TermID:         req.TermID,
	}

	if err := c.catalogService.CreateClubActivity(ctx, activity); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      activity,
		Timestamp: time.Now(),
	})
}

// GetClubActivitiesByTerm lists a term's activities
// @Summary List club activities of a term
// @Description Retrieves the billable activities offered in a term
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param termId path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ClubActivity} "Activities retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid term ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /club-activities/terms/{termId} [get]
func (c *CatalogController) GetClubActivitiesByTerm(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	termID, ok := parseIDParam(ctx, "termId")
	if !ok {
		return
	}

	activities, err := c.catalogService.GetClubActivitiesByTerm(ctx, schoolID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      activities,
		Timestamp: time.Now(),
	})
}

// CreateCampus handles campus creation
// @Summary Create a campus
// @Description Adds a campus to the caller's school
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Campus true "Campus information"
// @Success 201 {object} dto.APIResponse{data=models.Campus} "Campus created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /campuses [post]
func (c *CatalogController) CreateCampus(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var campus models.Campus
	if err := ctx.ShouldBindJSON(&campus); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid campus data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	campus.SchoolID = schoolID

	if err := c.catalogService.CreateCampus(ctx, &campus); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      campus,
		Timestamp: time.Now(),
	})
}

// GetCampuses lists the school's campuses
// @Summary List campuses
// @Description Retrieves all campuses of the caller's school
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Campus} "Campuses retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /campuses [get]
func (c *CatalogController) GetCampuses(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	campuses, err := c.catalogService.GetCampuses(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      campuses,
		Timestamp: time.Now(),
	})
}
