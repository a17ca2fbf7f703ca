package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmusoke/shulepoint/internal/app/models/dto"
	"github.com/tmusoke/shulepoint/internal/app/services"
	"github.com/tmusoke/shulepoint/internal/middleware"
	"github.com/tmusoke/shulepoint/internal/pkg/helpers"
)

// FeeController exposes the fee calculation engine and fee queries
type FeeController struct {
	feeCalculationService services.FeeCalculationService
	billingService        services.BillingService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeCalculationService services.FeeCalculationService, billingService services.BillingService) *FeeController {
	return &FeeController{
		feeCalculationService: feeCalculationService,
		billingService:        billingService,
	}
}

// ComputeFee runs the fee calculation with explicit inputs
// @Summary Compute a student's fee
// @Description Computes the expected fee for a student in a term with caller-controlled inputs and reconciles the fee record. Discounts and adjustments apply unless explicitly disabled.
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ComputeFeeRequest true "Computation inputs"
// @Success 200 {object} dto.APIResponse{data=dto.ComputedFeeResponse} "Fee computed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Term, class, student or activity not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/compute [post]
func (c *FeeController) ComputeFee(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.ComputeFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid computation request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	amount, err := c.feeCalculationService.ComputeFee(ctx, services.ComputeFeeInput{
		SchoolID:           schoolID,
		StudentID:          req.StudentID,
		ClassID:            req.ClassID,
		TermID:             req.TermID,
		ClubActivityIDs:    req.ClubActivityIDs,
		TransportRouteID:   req.TransportRouteID,
		IncludeDiscounts:   req.DiscountsIncluded(),
		IncludeAdjustments: req.AdjustmentsIncluded(),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fee, err := c.billingService.GetFee(ctx, schoolID, req.StudentID, req.TermID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ComputedFeeResponse{
			StudentID:      req.StudentID,
			TermID:         req.TermID,
			ExpectedAmount: amount,
			Fee:            dto.FromFee(fee),
		},
		Timestamp: time.Now(),
	})
}

// ComputeFeeForStudent runs the fee calculation from the student's records
// @Summary Compute a student's fee from their records
// @Description Derives class, clubs and transport from the student's current state, computes the fee and reconciles the fee record. A student with no class assignment yields zero and no fee record.
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param termId path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=dto.ComputedFeeResponse} "Fee computed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student or term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/compute/students/{studentId}/terms/{termId} [post]
func (c *FeeController) ComputeFeeForStudent(ctx *gin.Context) {
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

	amount, err := c.feeCalculationService.ComputeFeeForStudent(ctx, schoolID, studentID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ComputedFeeResponse{
		StudentID:      studentID,
		TermID:         termID,
		ExpectedAmount: amount,
	}

	// Unassigned students are not reconciled, so the fee row may not exist
	if fee, err := c.billingService.GetFee(ctx, schoolID, studentID, termID); err == nil {
		resp.Fee = dto.FromFee(fee)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetFee retrieves a student's fee for a term
// @Summary Get a student's term fee
// @Description Retrieves the persisted fee record for a student and term
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param termId path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=dto.FeeResponse} "Fee retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/students/{studentId}/terms/{termId} [get]
func (c *FeeController) GetFee(ctx *gin.Context) {
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

	fee, err := c.billingService.GetFee(ctx, schoolID, studentID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromFee(fee),
		Timestamp: time.Now(),
	})
}

// GetFeesByTerm lists the fees of a term
// @Summary List term fees
// @Description Retrieves a paginated list of fee records for a term across the school
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param termId path int true "Term ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Fees retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid term ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/terms/{termId} [get]
func (c *FeeController) GetFeesByTerm(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	termID, ok := parseIDParam(ctx, "termId")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	fees, total, err := c.billingService.GetFeesByTerm(ctx, schoolID, termID, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      dto.FromFees(fees),
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetPayments lists the payment ledger of a student's term fee
// @Summary List fee payments
// @Description Retrieves the append-only payment history for a student's term fee
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param termId path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=[]models.PaymentHistory} "Payments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/students/{studentId}/terms/{termId}/payments [get]
func (c *FeeController) GetPayments(ctx *gin.Context) {
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

	payments, err := c.billingService.GetPayments(ctx, schoolID, studentID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      payments,
		Timestamp: time.Now(),
	})
}

// RecordPayment appends a payment to a student's term fee
// @Summary Record a payment
// @Description Appends a payment to the fee's ledger and increases the paid amount. The fee record must already exist.
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordPaymentRequest true "Payment information"
// @Success 201 {object} dto.APIResponse{data=dto.FeeResponse} "Payment recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/payments [post]
func (c *FeeController) RecordPayment(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	userID, _ := middleware.UserID(ctx)

	var req dto.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	input := services.RecordPaymentInput{
		StudentID: req.StudentID,
		TermID:    req.TermID,
		Amount:    req.Amount,
		Method:    req.Method,
		CreatedBy: userID,
	}

	if req.PaidAt != "" {
		paidAt, err := helpers.ParseDate(req.PaidAt)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment date")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		input.PaidAt = paidAt
	}

	fee, err := c.billingService.RecordPayment(ctx, schoolID, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromFee(fee),
		Timestamp: time.Now(),
	})
}

// MarkOneOffPaid settles a one-off or annual line item
// @Summary Mark a one-off line item paid
// @Description Records that a one-off or annual line item is settled for the student in the academic year, so later computations skip it
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MarkOneOffPaidRequest true "Settlement information"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Line item marked paid"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student or academic year not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/one-off-payments [post]
func (c *FeeController) MarkOneOffPaid(ctx *gin.Context) {
	schoolID, ok := requireSchoolID(ctx)
	if !ok {
		return
	}

	var req dto.MarkOneOffPaidRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid settlement data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.billingService.MarkOneOffPaid(ctx, schoolID, req.StudentID, req.FeeLineItemID, req.AcademicYearID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Line item marked paid"},
		Timestamp: time.Now(),
	})
}
