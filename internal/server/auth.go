package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	authdomain "github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
)

func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.UserAgent = c.Request.UserAgent()
	req.IPAddress = c.ClientIP()

	result, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user":       result.User,
		"token":      result.RawToken,
		"expires_at": result.ExpiresAt,
	}})
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		// best effort, the cookie is cleared either way
		_ = s.authSvc.Logout(c.Request.Context(), token)
	}
	s.sessions.Clear(c)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"logged_out": true}})
}

func (s *Server) Me(c *gin.Context) {
	actor, ok := actorctx.FromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, authdomain.ErrInvalidSession)
		return
	}

	usr, err := s.userSvc.GetByID(c.Request.Context(), actor.UserID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": usr})
}
