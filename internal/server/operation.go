package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	operationdomain "github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
)

func (s *Server) CreateOperation(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectOperation, authorization.ActionCreate) {
		return
	}

	var req operationdomain.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	operation, err := s.operationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": operation})
}

func (s *Server) GetOperation(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectOperation, authorization.ActionView) {
		return
	}

	operation, err := s.operationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": operation})
}

func (s *Server) UpdateOperation(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectOperation, authorization.ActionUpdate) {
		return
	}

	var req operationdomain.UpdateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	operation, err := s.operationSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": operation})
}

func (s *Server) ListOperations(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectOperation, authorization.ActionView) {
		return
	}

	var req operationdomain.ListOperationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.operationSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateOperation(c *gin.Context) {
	s.setOperationActive(c, true)
}

func (s *Server) DeactivateOperation(c *gin.Context) {
	s.setOperationActive(c, false)
}

func (s *Server) setOperationActive(c *gin.Context, active bool) {
	if !s.authorize(c, authorization.ObjectOperation, authorization.ActionDelete) {
		return
	}

	operation, err := s.operationSvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": operation})
}
