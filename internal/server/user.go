package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
)

func (s *Server) CreateUser(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectUser, authorization.ActionCreate) {
		return
	}

	var req userdomain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	usr, err := s.userSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": usr})
}

func (s *Server) GetUser(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectUser, authorization.ActionView) {
		return
	}

	usr, err := s.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": usr})
}

func (s *Server) UpdateUser(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectUser, authorization.ActionUpdate) {
		return
	}

	var req userdomain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	usr, err := s.userSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": usr})
}

func (s *Server) ListUsers(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectUser, authorization.ActionView) {
		return
	}

	var req userdomain.ListUserRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.userSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateUser(c *gin.Context) {
	s.setUserActive(c, true)
}

func (s *Server) DeactivateUser(c *gin.Context) {
	s.setUserActive(c, false)
}

func (s *Server) setUserActive(c *gin.Context, active bool) {
	if !s.authorize(c, authorization.ObjectUser, authorization.ActionDelete) {
		return
	}

	usr, err := s.userSvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": usr})
}
