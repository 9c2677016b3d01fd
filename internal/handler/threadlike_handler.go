package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Hive_Community/internal/service"
)

type ThreadLikeHandler struct {
	svc *service.ThreadLikeService
}

func NewThreadLikeHandler() *ThreadLikeHandler {
	return &ThreadLikeHandler{
		svc: service.NewThreadLikeService(),
	}
}

func (h *ThreadLikeHandler) Like(c *gin.Context) {
	uid := userIDFromCtx(c)
	tid, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	changed, err := h.svc.Like(c.Request.Context(), uid, tid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed})
}

func (h *ThreadLikeHandler) Unlike(c *gin.Context) {
	uid := userIDFromCtx(c)
	tid, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	changed, err := h.svc.Unlike(c.Request.Context(), uid, tid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed})
}

func (h *ThreadLikeHandler) IsLiked(c *gin.Context) {
	uid := userIDFromCtx(c)
	tid, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	liked, err := h.svc.IsLiked(c.Request.Context(), uid, tid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "liked": liked})
}

func (h *ThreadLikeHandler) Count(c *gin.Context) {
	uid := userIDFromCtx(c)
	tid, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	cnt, err := h.svc.GetCountWithLock(c.Request.Context(), uid, tid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "count": cnt})
}
