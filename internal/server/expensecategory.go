package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	categorydomain "github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
)

func (s *Server) CreateExpenseCategory(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectExpenseCategory, authorization.ActionCreate) {
		return
	}

	var req categorydomain.CreateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	category, err := s.expenseCategorySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (s *Server) GetExpenseCategory(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectExpenseCategory, authorization.ActionView) {
		return
	}

	category, err := s.expenseCategorySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) UpdateExpenseCategory(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectExpenseCategory, authorization.ActionUpdate) {
		return
	}

	var req categorydomain.UpdateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	category, err := s.expenseCategorySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) ListExpenseCategories(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectExpenseCategory, authorization.ActionView) {
		return
	}

	var req categorydomain.ListExpenseCategoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseCategorySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateExpenseCategory(c *gin.Context) {
	s.setExpenseCategoryActive(c, true)
}

func (s *Server) DeactivateExpenseCategory(c *gin.Context) {
	s.setExpenseCategoryActive(c, false)
}

func (s *Server) setExpenseCategoryActive(c *gin.Context, active bool) {
	if !s.authorize(c, authorization.ObjectExpenseCategory, authorization.ActionDelete) {
		return
	}

	category, err := s.expenseCategorySvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}
