package handlers

import (
	"github.com/Sharruk/TravelGuard/internal/models"
	"github.com/Sharruk/TravelGuard/pkg/response"

	"github.com/gin-gonic/gin"
)

// authResult 登录与注册共用的响应体；非游客角色不带 tourist
type authResult struct {
	User    *models.User    `json:"user"`
	Tourist *models.Tourist `json:"tourist,omitempty"`
}

func (h *Handlers) handleLogin(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	user, tourist, err := models.Authenticate(h.db, form.Username, form.Password)
	h.recordBusiness("login", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, authResult{User: user, Tourist: tourist})
}

func (h *Handlers) handleRegister(c *gin.Context) {
	var form models.RegisterUserForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	user, tourist, err := models.RegisterUser(h.db, form)
	h.recordBusiness("register", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, authResult{User: user, Tourist: tourist})
}
