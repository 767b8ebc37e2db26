package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	invoicedomain "github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionCreate) {
		return
	}

	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": invoice})
}

func (s *Server) GetInvoice(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionView) {
		return
	}

	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionUpdate) {
		return
	}

	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	invoice, err := s.invoiceSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) ListInvoices(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionView) {
		return
	}

	var req invoicedomain.ListInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) IssueInvoice(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionInvoiceIssue) {
		return
	}

	invoice, err := s.invoiceSvc.Issue(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) CancelInvoice(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionInvoiceCancel) {
		return
	}

	invoice, err := s.invoiceSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) RecordInvoicePayment(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionInvoiceRecordPayment) {
		return
	}

	var req invoicedomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	invoice, err := s.invoiceSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) ActivateInvoice(c *gin.Context) {
	s.setInvoiceActive(c, true)
}

func (s *Server) DeactivateInvoice(c *gin.Context) {
	s.setInvoiceActive(c, false)
}

func (s *Server) setInvoiceActive(c *gin.Context, active bool) {
	if !s.authorize(c, authorization.ObjectInvoice, authorization.ActionDelete) {
		return
	}

	invoice, err := s.invoiceSvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}
