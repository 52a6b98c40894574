package controllers

import (
	"market/dto"
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthController(auth *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{auth: auth, users: users}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var input dto.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := ctrl.auth.Register(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, user)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ctrl.auth.Login(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

// AuthGoogle đăng nhập bằng Google ID token
func (ctrl *AuthController) AuthGoogle(c *gin.Context) {
	var input dto.GoogleLoginInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ctrl.auth.LoginWithGoogle(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.users.GetProfile(c.Request.Context(), actor(c).ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}

func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ctrl.users.UpdateProfile(c.Request.Context(), actor(c).ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}
