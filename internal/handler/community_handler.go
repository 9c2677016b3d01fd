package handler

import (
	"net/http"
	"strconv"

	"Hive_Community/internal/repository"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(store repository.Store) *CommunityHandler {
	return &CommunityHandler{
		svc: service.NewCommunityService(store),
	}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)

	var req service.CreateCommunityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          community.ID,
		"slug":        community.Slug,
		"name":        community.Name,
		"description": community.Description,
	})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Delete(c.Request.Context(), userID, communityID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
