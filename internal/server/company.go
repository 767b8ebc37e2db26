package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
)

func (s *Server) CreateCompany(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectCompany, authorization.ActionCreate) {
		return
	}

	var req companydomain.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.companySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": company})
}

func (s *Server) GetCompany(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectCompany, authorization.ActionView) {
		return
	}

	company, err := s.companySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": company})
}

func (s *Server) UpdateCompany(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectCompany, authorization.ActionUpdate) {
		return
	}

	var req companydomain.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	company, err := s.companySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": company})
}

func (s *Server) ListCompanies(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectCompany, authorization.ActionView) {
		return
	}

	var req companydomain.ListCompanyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateCompany(c *gin.Context) {
	s.setCompanyActive(c, true)
}

func (s *Server) DeactivateCompany(c *gin.Context) {
	s.setCompanyActive(c, false)
}

func (s *Server) setCompanyActive(c *gin.Context, active bool) {
	if !s.authorize(c, authorization.ObjectCompany, authorization.ActionDelete) {
		return
	}

	company, err := s.companySvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": company})
}
