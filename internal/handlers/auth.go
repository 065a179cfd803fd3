package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      authCredentials  true  "credentials"
// @Success      200    {object}  map[string]int
// @Failure      400    {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(input.Username, input.Password)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "auth_sign_up_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      authCredentials  true  "credentials"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(input.Username, input.Password)
	if err != nil {
		h.logAndJSONError(c, http.StatusUnauthorized, "invalid credentials", "auth_sign_in_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
