package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/orders"
)

func (s *Server) getMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"menu": s.svc.Orders.Menu()})
}

func (s *Server) listOrders(c *gin.Context) {
	day, err := dayQuery(c, "date", false)
	if err != nil {
		s.fail(c, err)
		return
	}

	list, err := s.svc.Orders.ListByDate(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "orders": list})
}

func (s *Server) createOrder(c *gin.Context) {
	var raw map[string]any
	if err := bindJSON(c, &raw); err != nil {
		s.fail(c, err)
		return
	}

	in, err := orders.DecodeCreateInput(raw)
	if err != nil {
		s.fail(c, err)
		return
	}

	order, err := s.svc.Orders.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"order": order})
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.fail(c, models.NewValidationError("id", "must be a positive number"))
		return
	}

	var in orders.StatusInput
	if err := bindJSON(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	order, err := s.svc.Orders.UpdateStatus(c.Request.Context(), id, in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"order": order})
}
