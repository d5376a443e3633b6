package handler

import (
	"net/http"

	"lab-quality-monitor/internal/usecase/mapping"
	"lab-quality-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MappingHandler struct {
	service *mapping.Service
}

func NewMappingHandler(service *mapping.Service) *MappingHandler {
	return &MappingHandler{service: service}
}

func (h *MappingHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/devices/:id/mappings", h.ListMappings)
	router.POST("/devices/:id/mappings", h.CreateMapping)

	mappings := router.Group("/mappings")
	{
		mappings.PUT("/:id", h.UpdateMapping)
		mappings.DELETE("/:id", h.DeleteMapping)
	}
}

func (h *MappingHandler) ListMappings(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	mappings, err := h.service.ListByDevice(c.Request.Context(), deviceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Mappings retrieved successfully", mappings)
}

func (h *MappingHandler) CreateMapping(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	var req mapping.CreateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.CreateMapping(c.Request.Context(), deviceID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Mapping created successfully", created)
}

func (h *MappingHandler) UpdateMapping(c *gin.Context) {
	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid mapping ID")
		return
	}

	var req mapping.UpdateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.UpdateMapping(c.Request.Context(), mappingID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Mapping updated successfully", updated)
}

func (h *MappingHandler) DeleteMapping(c *gin.Context) {
	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid mapping ID")
		return
	}

	if err := h.service.DeleteMapping(c.Request.Context(), mappingID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Mapping deleted successfully", nil)
}
