package handlers

import (
	"net/http"

	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EquipmentHandler serves the equipment stock and the per-court assignments.
type EquipmentHandler struct {
	equipmentService services.EquipmentService
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(es services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: es}
}

// bindQuantity reads the path id and the {"quantity": n} body of the stock endpoints.
func bindQuantity(c *gin.Context, op string) (int64, int, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	var req services.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, op)
		return 0, 0, false
	}
	return id, req.Quantity, true
}

// --- Equipment ---

func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var req services.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateEquipment")
		return
	}
	equipment, err := h.equipmentService.CreateEquipment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateEquipment")
		return
	}
	c.JSON(http.StatusCreated, equipment)
}

func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	items, err := h.equipmentService.GetEquipment(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetEquipment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

func (h *EquipmentHandler) GetEquipmentByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	equipment, err := h.equipmentService.GetEquipmentByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetEquipmentByID")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *EquipmentHandler) RenameEquipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.RenameEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "RenameEquipment")
		return
	}
	equipment, err := h.equipmentService.RenameEquipment(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "RenameEquipment")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *EquipmentHandler) AddStock(c *gin.Context) {
	id, quantity, ok := bindQuantity(c, "AddStock")
	if !ok {
		return
	}
	equipment, err := h.equipmentService.AddStock(c.Request.Context(), id, quantity)
	if err != nil {
		respondServiceError(c, err, "AddStock")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *EquipmentHandler) RemoveStock(c *gin.Context) {
	id, quantity, ok := bindQuantity(c, "RemoveStock")
	if !ok {
		return
	}
	equipment, err := h.equipmentService.RemoveStock(c.Request.Context(), id, quantity)
	if err != nil {
		respondServiceError(c, err, "RemoveStock")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.equipmentService.DeleteEquipment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteEquipment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted successfully"})
}

// --- Court assignments ---

func (h *EquipmentHandler) AssignToCourt(c *gin.Context) {
	var req services.AssignEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "AssignToCourt")
		return
	}
	assignment, err := h.equipmentService.AssignToCourt(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "AssignToCourt")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// GetAssignments lists every assignment; ?court_id= narrows it to one court.
func (h *EquipmentHandler) GetAssignments(c *gin.Context) {
	var courtID *int64
	if raw := c.Query("court_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil || id <= 0 {
			utils.RespondValidationFailed(c, "court_id must be a positive integer")
			return
		}
		courtID = &id
	}
	assignments, err := h.equipmentService.GetAssignments(c.Request.Context(), courtID)
	if err != nil {
		respondServiceError(c, err, "GetAssignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assignments, "total": len(assignments)})
}

func (h *EquipmentHandler) GetAssignmentByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	assignment, err := h.equipmentService.GetAssignmentByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetAssignmentByID")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *EquipmentHandler) IncreaseAssignment(c *gin.Context) {
	id, quantity, ok := bindQuantity(c, "IncreaseAssignment")
	if !ok {
		return
	}
	assignment, err := h.equipmentService.IncreaseAssignment(c.Request.Context(), id, quantity)
	if err != nil {
		respondServiceError(c, err, "IncreaseAssignment")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *EquipmentHandler) DecreaseAssignment(c *gin.Context) {
	id, quantity, ok := bindQuantity(c, "DecreaseAssignment")
	if !ok {
		return
	}
	assignment, err := h.equipmentService.DecreaseAssignment(c.Request.Context(), id, quantity)
	if err != nil {
		respondServiceError(c, err, "DecreaseAssignment")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *EquipmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.equipmentService.DeleteAssignment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteAssignment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Equipment removed from court, units returned to stock"})
}
