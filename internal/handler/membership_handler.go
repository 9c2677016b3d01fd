package handler

import (
	"net/http"
	"strconv"

	"Hive_Community/internal/repository"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	svc     *service.MembershipService
	permSvc *service.PermissionService
}

func NewMembershipHandler(store repository.Store, dispatcher repository.Dispatcher) *MembershipHandler {
	return &MembershipHandler{
		svc:     service.NewMembershipService(store, dispatcher),
		permSvc: service.NewPermissionService(store),
	}
}

type moderateReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// ToggleSubscription 订阅开关：按当前状态决定 join/leave/request/cancel
func (h *MembershipHandler) ToggleSubscription(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	status, err := h.svc.ToggleSubscription(c.Request.Context(), userID, channelID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}

func (h *MembershipHandler) Approve(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req moderateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ApprovePendingUser(c.Request.Context(), userID, channelID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MembershipHandler) Block(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req moderateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.BlockPendingUser(c.Request.Context(), userID, channelID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MembershipHandler) Unblock(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req moderateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.UnblockUser(c.Request.Context(), userID, channelID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ToggleNotifications 仅成员可切换，返回切换后的值
func (h *MembershipHandler) ToggleNotifications(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	on, err := h.svc.ToggleNotifications(c.Request.Context(), userID, channelID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receive_notifications": on})
}

// Permissions 查看自己对某频道的权限快照
func (h *MembershipHandler) Permissions(c *gin.Context) {
	userID := userIDFromCtx(c)
	channelID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	perms, err := h.permSvc.ResolveChannelPermissions(c.Request.Context(), channelID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, perms)
}

// CommunityPermissions 查看自己对某社区的权限快照
func (h *MembershipHandler) CommunityPermissions(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	perms, err := h.permSvc.ResolveCommunityPermissions(c.Request.Context(), communityID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, perms)
}
