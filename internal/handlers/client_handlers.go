package handlers

import (
	"net/http"
	"strings"

	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateClient")
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateClient")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients lists clients, filtered by ?search= on first or last name.
func (h *ClientHandler) GetClients(c *gin.Context) {
	var searchTerm *string
	if search := c.Query("search"); !utils.IsBlank(search) {
		search = strings.TrimSpace(search)
		searchTerm = &search
	}

	clients, err := h.clientService.GetClients(c.Request.Context(), searchTerm)
	if err != nil {
		respondServiceError(c, err, "GetClients")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients, "total": len(clients)})
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	client, err := h.clientService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		respondServiceError(c, err, "GetClientByID")
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetClientByDNI handles fetching a single client by national id number.
func (h *ClientHandler) GetClientByDNI(c *gin.Context) {
	dni, ok := parseIDParam(c, "dni")
	if !ok {
		return
	}
	client, err := h.clientService.GetClientByDNI(c.Request.Context(), dni)
	if err != nil {
		respondServiceError(c, err, "GetClientByDNI")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles updating a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateClient")
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateClient")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		respondServiceError(c, err, "DeleteClient")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
