package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	paymentmethoddomain "github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/domain"
)

func (s *Server) CreatePaymentMethod(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectPaymentMethod, authorization.ActionCreate) {
		return
	}

	var req paymentmethoddomain.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	method, err := s.paymentMethodSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": method})
}

func (s *Server) GetPaymentMethod(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectPaymentMethod, authorization.ActionView) {
		return
	}

	method, err := s.paymentMethodSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": method})
}

func (s *Server) UpdatePaymentMethod(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectPaymentMethod, authorization.ActionUpdate) {
		return
	}

	var req paymentmethoddomain.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	method, err := s.paymentMethodSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": method})
}

func (s *Server) ListPaymentMethods(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectPaymentMethod, authorization.ActionView) {
		return
	}

	var req paymentmethoddomain.ListPaymentMethodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentMethodSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivatePaymentMethod(c *gin.Context) {
	s.setPaymentMethodActive(c, true)
}

func (s *Server) DeactivatePaymentMethod(c *gin.Context) {
	s.setPaymentMethodActive(c, false)
}

func (s *Server) setPaymentMethodActive(c *gin.Context, active bool) {
	if !s.authorize(c, authorization.ObjectPaymentMethod, authorization.ActionDelete) {
		return
	}

	method, err := s.paymentMethodSvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": method})
}
