package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/models/dto"
	"github.com/tmusoke/shulepoint/internal/app/services"
	"github.com/tmusoke/shulepoint/internal/middleware"
)

// FeeStructureController handles fee structure authoring operations
type FeeStructureController struct {
	feeStructureService services.FeeStructureService
}

// NewFeeStructureController creates a new FeeStructureController
func NewFeeStructureController(feeStructureService services.FeeStructureService) *FeeStructureController {
	return &FeeStructureController{
		feeStructureService: feeStructureService,
	}
}

func structureFromRequest(schoolID, campusID, academicYearID int64, termID *int64, name string, scope models.StructureScope, baseFee decimal.Decimal, items []dto.FeeLineItemRequest) *models.FeeStructure {
	fs := &models.FeeStructure{
		SchoolID:       schoolID,
		CampusID:       campusID,
		AcademicYearID: academicYearID,
		TermID:         termID,
		StructureName:  name,
		StructureScope: scope,
		BaseFee:        baseFee,
	}
	for _, item := range items {
		fs.LineItems = append(fs.LineItems, &models.FeeLineItem{
			ItemName:     item.ItemName,
			Amount:       item.Amount,
			IsAnnual:     item.IsAnnual,
			IsOneOff:     item.IsOneOff,
			DisplayOrder: item.DisplayOrder,
		})
	}
	return fs
}

// CreateStructure handles fee structure creation
// @Summary Create a fee structure
// @Description Creates version 1 of a fee structure covering one or more classes
// @Tags fee-structures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFeeStructureRequest true "Fee structure information"
// @Success 201 {object} dto.APIResponse{data=models.FeeStructure} "Fee structure created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Academic year or class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fee-structures [post]
func (c *FeeStructureController) CreateStructure(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.CreateFeeStructureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fee structure data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fs := structureFromRequest(schoolID, req.CampusID, req.AcademicYearID, req.TermID, req.StructureName, req.StructureScope, req.BaseFee, req.LineItems)

	if err := c.feeStructureService.CreateStructure(ctx, fs, req.ClassIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      fs,
		Timestamp: time.Now(),
	})
}

// CreateVersion supersedes a structure with a new version
// @Summary Create a new fee structure version
// @Description Creates a new version of an existing structure and deactivates the parent. Selection always resolves to the newest active version.
// @Tags fee-structures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parent structure ID"
// @Param request body dto.CreateFeeStructureVersionRequest true "New version content"
// @Success 201 {object} dto.APIResponse{data=models.FeeStructure} "Version created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Parent structure not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fee-structures/{id}/versions [post]
func (c *FeeStructureController) CreateVersion(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	parentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateFeeStructureVersionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fee structure data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fs := structureFromRequest(schoolID, 0, 0, req.TermID, req.StructureName, req.StructureScope, req.BaseFee, req.LineItems)

	if err := c.feeStructureService.CreateVersion(ctx, schoolID, parentID, fs, req.ClassIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      fs,
		Timestamp: time.Now(),
	})
}

// GetStructureByID retrieves a fee structure with its line items
// @Summary Get fee structure by ID
// @Description Retrieves a fee structure including its line items
// @Tags fee-structures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee structure ID"
// @Success 200 {object} dto.APIResponse{data=models.FeeStructure} "Fee structure retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid fee structure ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Fee structure not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fee-structures/{id} [get]
func (c *FeeStructureController) GetStructureByID(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fs, err := c.feeStructureService.GetStructureByID(ctx, schoolID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      fs,
		Timestamp: time.Now(),
	})
}

// GetStructuresByAcademicYear lists the structures of an academic year
// @Summary List fee structures of a year
// @Description Retrieves all fee structure versions authored for an academic year
// @Tags fee-structures
// @Produce json
// @Security BearerAuth
// @Param yearId path int true "Academic year ID"
// @Success 200 {object} dto.APIResponse{data=[]models.FeeStructure} "Fee structures retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid academic year ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /academic-years/{yearId}/fee-structures [get]
func (c *FeeStructureController) GetStructuresByAcademicYear(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	yearID, ok := parseIDParam(ctx, "yearId")
	if !ok {
		return
	}

	structures, err := c.feeStructureService.GetStructuresByAcademicYear(ctx, schoolID, yearID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      structures,
		Timestamp: time.Now(),
	})
}

// DeactivateStructure retires a fee structure version
// @Summary Deactivate a fee structure
// @Description Marks a fee structure inactive so selection no longer resolves to it
// @Tags fee-structures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee structure ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Fee structure deactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid fee structure ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Fee structure not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fee-structures/{id} [delete]
func (c *FeeStructureController) DeactivateStructure(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.feeStructureService.DeactivateStructure(ctx, schoolID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Fee structure deactivated"},
		Timestamp: time.Now(),
	})
}
