package handler

import (
	"net/http"
	"strconv"

	"Hive_Community/internal/repository"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type ThreadHandler struct {
	svc *service.ThreadService
}

func NewThreadHandler(store repository.Store) *ThreadHandler {
	return &ThreadHandler{svc: service.NewThreadService(store)}
}

type threadCreateReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *ThreadHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req threadCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), userID, channelID, req.Title, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": t.ID, "title": t.Title})
}

// ListByChannel 游标分页
func (h *ThreadHandler) ListByChannel(c *gin.Context) {
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, next, err := h.svc.ListByChannel(c.Request.Context(), channelID, cursor, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

func (h *ThreadHandler) Delete(c *gin.Context) {
	userID := userIDFromCtx(c)
	threadID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Delete(c.Request.Context(), userID, threadID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
