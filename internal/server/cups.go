package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matthieukhl/drinkstand/internal/cups"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/orders"
)

func (s *Server) getStartCups(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	shift, drink := c.Query("shift"), c.Query("drink_type")
	if shift != "" && drink != "" {
		sc, err := s.svc.Cups.StartCup(c.Request.Context(), day, models.Shift(shift), models.DrinkType(drink))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": day, "start_cup": sc})
		return
	}

	list, err := s.svc.Cups.StartCups(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []models.StartCup{}
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "start_cups": list})
}

func (s *Server) putStartCup(c *gin.Context) {
	var in cups.StartCupInput
	if err := bindJSON(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	sc, err := s.svc.Cups.SetStartCup(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"start_cup": sc})
}

func (s *Server) getTally(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	rows, err := s.svc.Cups.Tally(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "tally": rows})
}

// getMovements returns the carry-forward table, optionally for one category
// and one month (?year=&month=).
func (s *Server) getMovements(c *gin.Context) {
	categories := models.DrinkTypes
	if raw := c.Query("category"); raw != "" {
		drink, ok := orders.ParseDrinkType(raw)
		if !ok {
			s.fail(c, models.NewValidationError("category", "must be one of [ice hot]"))
			return
		}
		categories = []models.DrinkType{drink}
	}

	year, err := intQuery(c, "year", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	month, err := intQuery(c, "month", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	var filter models.Month
	if year != 0 || month != 0 {
		if year <= 0 || month < 1 || month > 12 {
			s.fail(c, models.NewValidationError("month", "year and month must be given together, month in 1..12"))
			return
		}
		filter = models.Month{Year: year, Month: time.Month(month)}
	}

	tables := make([]cups.Table, 0, len(categories))
	for _, category := range categories {
		t, err := s.svc.Cups.Table(c.Request.Context(), category, filter)
		if err != nil {
			s.fail(c, err)
			return
		}
		tables = append(tables, t)
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

func (s *Server) postMovement(c *gin.Context) {
	var in cups.MovementInput
	if err := bindJSON(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	m, err := s.svc.Cups.RecordMovement(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"movement": m})
}

func (s *Server) getPlan(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	plan, err := s.svc.Cups.Plan(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) putPlan(c *gin.Context) {
	var in cups.PlanInput
	if err := bindJSON(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	plan, err := s.svc.Cups.SetPlan(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"plan": plan})
}

func (s *Server) getAvailable(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	a, err := s.svc.Cups.Available(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) getCupSummary(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	summary, err := s.svc.Cups.DaySummary(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// postAutoClose closes the given date, yesterday by default. Closing an
// already closed day succeeds without changes.
func (s *Server) postAutoClose(c *gin.Context) {
	day, err := dayQuery(c, "date", false)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.svc.Cups.AutoClose(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}

	message := "closed"
	if !res.Created {
		message = "already closed"
	}
	success(c, http.StatusOK, gin.H{
		"date":    res.Date,
		"created": res.Created,
		"closing": res.Closing,
		"message": message,
	})
}
