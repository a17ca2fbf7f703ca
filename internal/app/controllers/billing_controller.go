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

// BillingController handles discount and adjustment operations
type BillingController struct {
	billingService services.BillingService
}

// NewBillingController creates a new BillingController
func NewBillingController(billingService services.BillingService) *BillingController {
	return &BillingController{
		billingService: billingService,
	}
}

// CreateGlobalDiscount handles discount creation
// @Summary Create a global discount
// @Description Creates a tenant-wide discount rule for a term, optionally scoped to campuses or classes
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGlobalDiscountRequest true "Discount information"
// @Success 201 {object} dto.APIResponse{data=models.GlobalDiscount} "Discount created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /discounts [post]
func (c *BillingController) CreateGlobalDiscount(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.CreateGlobalDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid discount data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	discount := &models.GlobalDiscount{
		SchoolID:      schoolID,
		TermID:        req.TermID,
		Name:          req.Name,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		AppliesTo:     req.AppliesTo,
		IsActive:      true,
		CampusIDs:     req.CampusIDs,
		ClassIDs:      req.ClassIDs,
	}

	if err := c.billingService.CreateGlobalDiscount(ctx, discount); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      discount,
		Timestamp: time.Now(),
	})
}

// SetDiscountActive toggles a discount
// @Summary Activate or deactivate a discount
// @Description Toggles a discount without deleting its audit trail
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discount ID"
// @Param request body dto.SetDiscountActiveRequest true "Activation flag"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Discount updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Discount not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /discounts/{id}/active [put]
func (c *BillingController) SetDiscountActive(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetDiscountActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid activation data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.billingService.SetDiscountActive(ctx, schoolID, id, *req.IsActive); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Discount updated"},
		Timestamp: time.Now(),
	})
}

// GetActiveDiscountsByTerm lists a term's active discounts
// @Summary List active discounts of a term
// @Description Retrieves the active discounts for a term with their scope sets
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param termId path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=[]models.GlobalDiscount} "Discounts retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid term ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /discounts/terms/{termId} [get]
func (c *BillingController) GetActiveDiscountsByTerm(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	termID, ok := parseIDParam(ctx, "termId")
	if !ok {
		return
	}

	discounts, err := c.billingService.GetActiveDiscountsByTerm(ctx, schoolID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      discounts,
		Timestamp: time.Now(),
	})
}

// CreateAdjustment handles per-student adjustment creation
// @Summary Create a fee adjustment
// @Description Creates a per-student reduction for a term with a mandatory reason
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAdjustmentRequest true "Adjustment information"
// @Success 201 {object} dto.APIResponse{data=models.FeeAdjustment} "Adjustment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student or term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /adjustments [post]
func (c *BillingController) CreateAdjustment(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	userID, _ := middleware.UserID(ctx)

	var req dto.CreateAdjustmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid adjustment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	adjustment := &models.FeeAdjustment{
		SchoolID:        schoolID,
		StudentID:       req.StudentID,
		TermID:          req.TermID,
		AdjustmentType:  req.AdjustmentType,
		AdjustmentValue: req.AdjustmentValue,
		Reason:          req.Reason,
		CreatedByUserID: userID,
	}

	if err := c.billingService.CreateAdjustment(ctx, adjustment); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      adjustment,
		Timestamp: time.Now(),
	})
}

// DeleteAdjustment removes an adjustment
// @Summary Delete a fee adjustment
// @Description Removes a per-student adjustment
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param id path int true "Adjustment ID"
// @Success 204 "Adjustment deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid adjustment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Adjustment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /adjustments/{id} [delete]
func (c *BillingController) DeleteAdjustment(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.billingService.DeleteAdjustment(ctx, schoolID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Timestamp: time.Now(),
	})
}

// GetAdjustments lists a student's adjustments for a term
// @Summary List a student's adjustments
// @Description Retrieves the adjustments applied to a student in a term, oldest first
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param termId path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=[]models.FeeAdjustment} "Adjustments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /adjustments/students/{studentId}/terms/{termId} [get]
func (c *BillingController) GetAdjustments(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	termID, ok := parseIDParam(ctx, "termId")
	if !ok {
		return
	}

	adjustments, err := c.billingService.GetAdjustments(ctx, schoolID, studentID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      adjustments,
		Timestamp: time.Now(),
	})
}
