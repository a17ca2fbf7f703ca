package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/models/dto"
	"github.com/tmusoke/shulepoint/internal/app/services"
	"github.com/tmusoke/shulepoint/internal/middleware"
	"github.com/tmusoke/shulepoint/internal/pkg/helpers"
)

// AcademicController handles academic year, term and class operations
type AcademicController struct {
	academicService services.AcademicService
}

// NewAcademicController creates a new AcademicController
func NewAcademicController(academicService services.AcademicService) *AcademicController {
	return &AcademicController{
		academicService: academicService,
	}
}

// CreateAcademicYear handles academic year creation
// @Summary Create an academic year
// @Description Creates an academic year. Years of the same school must not overlap.
// @Tags academics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAcademicYearRequest true "Academic year information"
// @Success 201 {object} dto.APIResponse{data=models.AcademicYear} "Academic year created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Year overlaps an existing one"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /academic-years [post]
func (c *AcademicController) CreateAcademicYear(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAcademicYearRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid academic year data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	startDate, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid start date")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	endDate, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid end date")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	year := &models.AcademicYear{
		SchoolID:  schoolID,
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := c.academicService.CreateAcademicYear(ctx, year); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      year,
		Timestamp: time.Now(),
	})
}

// GetAcademicYears lists the school's academic years
// @Summary List academic years
// @Description Retrieves all academic years of the caller's school
// @Tags academics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicYear} "Academic years retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /academic-years [get]
func (c *AcademicController) GetAcademicYears(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	years, err := c.academicService.GetAllAcademicYears(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      years,
		Timestamp: time.Now(),
	})
}

// CreateTerm handles term creation
// @Summary Create a term
// @Description Creates a term within an academic year. Terms must fall inside the year and not overlap siblings.
// @Tags academics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTermRequest true "Term information"
// @Success 201 {object} dto.APIResponse{data=models.Term} "Term created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Academic year not found"
// @Failure 409 {object} dto.ErrorResponse "Term overlaps an existing one"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [post]
func (c *AcademicController) CreateTerm(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTermRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid term data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	startDate, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid start date")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	endDate, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid end date")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	term := &models.Term{
		AcademicYearID: req.AcademicYearID,
		Name:           req.Name,
		StartDate:      startDate,
		EndDate:        endDate,
	}

	if err := c.academicService.CreateTerm(ctx, schoolID, term); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      term,
		Timestamp: time.Now(),
	})
}

// GetTermsByAcademicYear lists the terms of an academic year
// @Summary List terms of a year
// @Description Retrieves the terms of an academic year ordered by start date
// @Tags academics
// @Produce json
// @Security BearerAuth
// @Param yearId path int true "Academic year ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Term} "Terms retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid academic year ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Academic year not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /academic-years/{yearId}/terms [get]
func (c *AcademicController) GetTermsByAcademicYear(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	yearID, ok := parseIDParam(ctx, "yearId")
	if !ok {
		return
	}

	terms, err := c.academicService.GetTermsByAcademicYear(ctx, schoolID, yearID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      terms,
		Timestamp: time.Now(),
	})
}

// CreateClass handles class creation
// @Summary Create a class
// @Description Creates a class within a campus and academic year
// @Tags academics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassRequest true "Class information"
// @Success 201 {object} dto.APIResponse{data=models.Class} "Class created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes [post]
func (c *AcademicController) CreateClass(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid class data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	class := &models.Class{
		CampusID:       req.CampusID,
		AcademicYearID: req.AcademicYearID,
		Name:           req.Name,
		Capacity:       req.Capacity,
	}

	if err := c.academicService.CreateClass(ctx, schoolID, class); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// GetClassesByAcademicYear lists the classes of an academic year
// @Summary List classes of a year
// @Description Retrieves the classes of an academic year across all campuses
// @Tags academics
// @Produce json
// @Security BearerAuth
// @Param yearId path int true "Academic year ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Class} "Classes retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid academic year ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /academic-years/{yearId}/classes [get]
func (c *AcademicController) GetClassesByAcademicYear(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	yearID, ok := parseIDParam(ctx, "yearId")
	if !ok {
		return
	}

	classes, err := c.academicService.GetClassesByAcademicYear(ctx, schoolID, yearID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      classes,
		Timestamp: time.Now(),
	})
}
