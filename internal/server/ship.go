package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
)

func (s *Server) CreateShip(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectShip, authorization.ActionCreate) {
		return
	}

	var req shipdomain.CreateShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ship, err := s.shipSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": ship})
}

func (s *Server) GetShip(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectShip, authorization.ActionView) {
		return
	}

	ship, err := s.shipSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ship})
}

func (s *Server) UpdateShip(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectShip, authorization.ActionUpdate) {
		return
	}

	var req shipdomain.UpdateShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	ship, err := s.shipSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ship})
}

func (s *Server) ListShips(c *gin.Context) {
	if !s.authorize(c, authorization.ObjectShip, authorization.ActionView) {
		return
	}

	var req shipdomain.ListShipRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shipSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateShip(c *gin.Context) {
	s.setShipActive(c, true)
}

func (s *Server) DeactivateShip(c *gin.Context) {
	s.setShipActive(c, false)
}

func (s *Server) setShipActive(c *gin.Context, active bool) {
	if !s.authorize(c, authorization.ObjectShip, authorization.ActionDelete) {
		return
	}

	ship, err := s.shipSvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ship})
}
