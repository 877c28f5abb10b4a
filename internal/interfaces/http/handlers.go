package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/application/service"
	"github.com/tkhalil/erpflow/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

const actorIDHeader = "X-Actor-ID"

// actorID extracts the acting user from the X-Actor-ID header
func (h *Handlers) actorID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(actorIDHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "missing or invalid " + actorIDHeader + " header",
		})
		return 0, false
	}
	return id, true
}

// pathID extracts a numeric path parameter
func (h *Handlers) pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// fail maps domain errors onto HTTP status codes
func (h *Handlers) fail(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrDocumentNotFound),
		errors.Is(err, workflow.ErrTransactionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrProcessNotFound),
		errors.Is(err, workflow.ErrProcessMisconfigured),
		errors.Is(err, workflow.ErrAssigneeNotFound):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrUnauthorizedActor):
		status = http.StatusForbidden
	case errors.Is(err, workflow.ErrDuplicateRequest),
		errors.Is(err, workflow.ErrAlreadyResolved),
		errors.Is(err, workflow.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrInvalidState):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// DocumentRequest is the writable document payload
type DocumentRequest struct {
	Type           string `json:"type" binding:"required"`
	DepartmentID   int64  `json:"department_id"`
	CostCenterID   int64  `json:"cost_center_id"`
	SubCostCenter  string `json:"sub_cost_center"`
	FiscalPeriodID int64  `json:"fiscal_period_id"`
	SupplierID     *int64 `json:"supplier_id"`
	Amount         string `json:"amount"`
	Justification  string `json:"justification"`
}

func (r DocumentRequest) toInput(requesterID int64) service.CreateDocumentInput {
	return service.CreateDocumentInput{
		Type:           r.Type,
		RequesterID:    requesterID,
		DepartmentID:   r.DepartmentID,
		CostCenterID:   r.CostCenterID,
		SubCostCenter:  r.SubCostCenter,
		FiscalPeriodID: r.FiscalPeriodID,
		SupplierID:     r.SupplierID,
		Amount:         r.Amount,
		Justification:  r.Justification,
	}
}

// CreateDocument handles POST /api/v1/documents
func (h *Handlers) CreateDocument(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	doc, err := h.services.Documents.Create(c.Request.Context(), req.toInput(actorID))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// ListDocuments handles GET /api/v1/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	filter := port.DocumentFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
	if raw := c.Query("requester"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid requester"})
			return
		}
		filter.RequesterID = id
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	docs, err := h.services.Documents.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: docs})
}

// GetDocument handles GET /api/v1/documents/:id
func (h *Handlers) GetDocument(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.services.Documents.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// UpdateDocument handles PUT /api/v1/documents/:id
func (h *Handlers) UpdateDocument(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	doc, err := h.services.Documents.UpdateDraft(c.Request.Context(), id, req.toInput(actorID))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// SubmitDocument handles POST /api/v1/documents/:id/submit
func (h *Handlers) SubmitDocument(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}

	tx, err := h.services.Engine.Submit(c.Request.Context(), id, actorID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: tx})
}

// ListTransactions handles GET /api/v1/documents/:id/transactions
func (h *Handlers) ListTransactions(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	txs, err := h.services.Engine.History(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: txs})
}

// ExportHistory handles GET /api/v1/documents/:id/history/export
func (h *Handlers) ExportHistory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.services.Documents.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	txs, err := h.services.Engine.History(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	content, err := h.services.Exporter.Export(doc, txs)
	if err != nil {
		h.fail(c, err)
		return
	}

	fileName := fmt.Sprintf("%s-history.xlsx", doc.Reference)
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		content)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *Handlers) GetTransaction(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tx, err := h.services.Ledger.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: tx})
}

// DecisionRequest is the decision payload
type DecisionRequest struct {
	Decision   string `json:"decision" binding:"required"`
	Comment    string `json:"comment"`
	ReferredTo int64  `json:"referred_to"`
}

// DecideTransaction handles POST /api/v1/transactions/:id/decision
func (h *Handlers) DecideTransaction(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.services.Engine.Decide(c.Request.Context(), id, req.Decision, actorID, req.Comment, req.ReferredTo)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// UploadAttachment handles POST /api/v1/documents/:id/attachments
func (h *Handlers) UploadAttachment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.fail(c, err)
		return
	}

	att, err := h.services.Attachments.Upload(c.Request.Context(), id, actorID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), content)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: att})
}

// DownloadAttachment handles GET /api/v1/attachments/:id
func (h *Handlers) DownloadAttachment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	att, content, err := h.services.Attachments.Download(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+att.FileName+`"`)
	c.Data(http.StatusOK, contentType, content)
}

// ListTasks handles GET /api/v1/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	assignee, err := strconv.ParseInt(c.Query("assignee"), 10, 64)
	if err != nil || assignee <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing or invalid assignee"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tasks, err := h.services.Tasks.ListForAssignee(c.Request.Context(), assignee, limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: tasks})
}

// MarkTaskRead handles POST /api/v1/tasks/:id/read
func (h *Handlers) MarkTaskRead(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Tasks.MarkRead(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// GetProcess handles GET /api/v1/processes/:title
func (h *Handlers) GetProcess(c *gin.Context) {
	title := c.Param("title")

	def, err := h.services.Processes.FindByTitle(c.Request.Context(), title)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: def})
}
