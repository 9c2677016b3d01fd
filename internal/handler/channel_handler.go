package handler

import (
	"net/http"
	"strconv"

	"Hive_Community/internal/repository"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	svc *service.ChannelService
}

func NewChannelHandler(store repository.Store) *ChannelHandler {
	return &ChannelHandler{
		svc: service.NewChannelService(store),
	}
}

func (h *ChannelHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)

	var req service.CreateChannelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	req.CommunityID, _ = strconv.ParseUint(c.Param("id"), 10, 64)

	ch, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         ch.ID,
		"slug":       ch.Slug,
		"name":       ch.Name,
		"is_private": ch.IsPrivate,
		"is_default": ch.IsDefault,
	})
}

// Edit 部分更新，未出现的字段保持不变
func (h *ChannelHandler) Edit(c *gin.Context) {
	userID := userIDFromCtx(c)

	var req service.EditChannelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	req.ChannelID, _ = strconv.ParseUint(c.Param("id"), 10, 64)

	ch, err := h.svc.Edit(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         ch.ID,
		"slug":       ch.Slug,
		"name":       ch.Name,
		"is_private": ch.IsPrivate,
		"is_default": ch.IsDefault,
	})
}

func (h *ChannelHandler) Delete(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Delete(c.Request.Context(), userID, channelID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
