package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	expensedomain "github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/export"
	invoicedomain "github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
)

func (s *Server) ExportInvoicePDF(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectExport, authorization.ActionExportInvoicePDF) {
		return
	}

	doc, err := s.exportSvc.InvoicePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeDocument(c, doc)
}

func (s *Server) ExportInvoicesExcel(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectExport, authorization.ActionExportInvoices) {
		return
	}

	var req invoicedomain.ListInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	doc, err := s.exportSvc.InvoicesExcel(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeDocument(c, doc)
}

func (s *Server) ExportExpensesExcel(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectExport, authorization.ActionExportExpenses) {
		return
	}

	var req expensedomain.ListExpenseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	doc, err := s.exportSvc.ExpensesExcel(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeDocument(c, doc)
}

func writeDocument(c *gin.Context, doc export.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
