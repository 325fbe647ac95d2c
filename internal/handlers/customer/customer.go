// internal/handlers/customer/customer.go
package customer

import (
	"errors"
	"net/http"

	"salespipe-service/internal/domain/customer"
	"salespipe-service/internal/importer"
	"salespipe-service/internal/observability"
	xerrors "salespipe-service/internal/pkg/errors"
	"salespipe-service/internal/pkg/response"
	service "salespipe-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	importer        *importer.Importer
}

func NewCustomerHandler(customerService *service.CustomerService, imp *importer.Importer) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		importer:        imp,
	}
}

// SearchCustomers returns the filtered, sorted record set.
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	var criteria customer.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		response.ValidationError(c, "invalid search criteria", err)
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), &criteria)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list customers", err)
		return
	}

	response.Success(c, http.StatusOK, "customers retrieved", result)
}

// CreateCustomer creates a single customer record.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req customer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to create customer", err)
		return
	}

	response.Success(c, http.StatusCreated, "customer created successfully", result)
}

// UpdateCustomer updates an existing record; the service appends the
// system update activity behind it.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.ValidationError(c, "customer ID is required", nil)
		return
	}

	var req customer.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to update customer", err)
		return
	}

	response.Success(c, http.StatusOK, "customer updated successfully", result)
}

// GetPipelineMetrics returns the aggregated pipeline statistics.
func (h *CustomerHandler) GetPipelineMetrics(c *gin.Context) {
	var criteria customer.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	metrics, err := h.customerService.PipelineMetrics(c.Request.Context(), &criteria)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to aggregate metrics", err)
		return
	}

	response.Success(c, http.StatusOK, "pipeline metrics", metrics)
}

type importRequest struct {
	CSVData        string `json:"csv_data" binding:"required"`
	SkipDuplicates bool   `json:"skip_duplicates"`
}

// ImportCustomers runs the CSV batch import and returns the per-row report.
func (h *CustomerHandler) ImportCustomers(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	existing, err := h.customerService.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load existing customers", err)
		return
	}

	report, err := h.importer.ImportBatch(c.Request.Context(), req.CSVData, existing, importer.Options{
		SkipDuplicates: req.SkipDuplicates,
	})
	if err != nil {
		response.ValidationError(c, "failed to parse CSV payload", err)
		return
	}

	for _, row := range report.Rows {
		observability.ImportRowsTotal.WithLabelValues(row.Outcome).Inc()
	}

	response.Success(c, http.StatusOK, "import completed", report)
}

// DownloadTemplate serves the CSV import template.
func (h *CustomerHandler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename="+importer.TemplateFilename)
	c.Data(http.StatusOK, importer.TemplateContentType, importer.Template())
}

func statusFor(err error) int {
	switch {
	case xerrors.IsValidation(err), errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
