package handler

import (
	"net/http"

	"Hive_Community/internal/pkg"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	svc *service.EmailService
}

type SendCodeReq struct {
	Scope string `json:"scope" binding:"required,oneof=register reset"`
	Email string `json:"email" binding:"required,email"`
}
type VerifyReq struct {
	Scope string `json:"scope" binding:"required,oneof=register reset"`
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code"  binding:"required,len=6"`
}

func NewEmailHandler(cfg pkg.SMTPConfig) *EmailHandler {
	return &EmailHandler{svc: service.NewEmailService(cfg)}
}

func (h *EmailHandler) SendCode(c *gin.Context) {
	var req SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.SendCode(req.Scope, req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Send code successfully"})
}

// VerifyCode 校验code和服务端的是否相同
func (h *EmailHandler) VerifyCode(c *gin.Context) {
	var req VerifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	ok, err := h.svc.VerifyCode(req.Scope, req.Email, req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Verify successfully", "valid": ok})
}
