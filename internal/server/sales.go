package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/orders"
	"github.com/matthieukhl/drinkstand/internal/sales"
)

func (s *Server) getSummary(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	summary, err := s.svc.Sales.Summary(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getReconciliation(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	rec, err := s.svc.Sales.Reconciliation(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) getReports(c *gin.Context) {
	day, err := dayQuery(c, "date", true)
	if err != nil {
		s.fail(c, err)
		return
	}

	reports, err := s.svc.Sales.Reports(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	if reports == nil {
		reports = []models.SalesReport{}
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "reports": reports})
}

func (s *Server) putReport(c *gin.Context) {
	var in sales.ReportInput
	if err := bindJSON(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	report, err := s.svc.Sales.SubmitReport(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"report": report})
}

// getRanking ranks a day (?date=) or a month (?month=). drink_type narrows the
// answer to one list.
func (s *Server) getRanking(c *gin.Context) {
	limit, err := intQuery(c, "limit", sales.DefaultRankingLimit)
	if err != nil {
		s.fail(c, err)
		return
	}

	var ranking sales.Ranking
	switch {
	case c.Query("date") != "":
		day, err := dayQuery(c, "date", true)
		if err != nil {
			s.fail(c, err)
			return
		}
		ranking, err = s.svc.Sales.DayRanking(c.Request.Context(), day, limit)
		if err != nil {
			s.fail(c, err)
			return
		}
	case c.Query("month") != "":
		month, err := monthQuery(c, "month")
		if err != nil {
			s.fail(c, err)
			return
		}
		ranking, err = s.svc.Sales.MonthRanking(c.Request.Context(), month, limit)
		if err != nil {
			s.fail(c, err)
			return
		}
	default:
		s.fail(c, models.NewValidationError("date", "or month is required"))
		return
	}

	raw := c.Query("drink_type")
	if raw == "" {
		c.JSON(http.StatusOK, ranking)
		return
	}
	drink, ok := orders.ParseDrinkType(raw)
	if !ok {
		s.fail(c, models.NewValidationError("drink_type", "must be one of [ice hot]"))
		return
	}
	list := ranking.Ice
	if drink == models.DrinkHot {
		list = ranking.Hot
	}
	c.JSON(http.StatusOK, gin.H{"period": ranking.Period, "drink_type": drink, "ranking": list})
}

func (s *Server) getDailyStats(c *gin.Context) {
	month, err := monthQuery(c, "month")
	if err != nil {
		s.fail(c, err)
		return
	}

	stats, err := s.svc.Sales.DailyStats(c.Request.Context(), month)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month.String(), "days": stats})
}

func (s *Server) getMonthlyStats(c *gin.Context) {
	year, err := intQuery(c, "year", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	if year <= 0 {
		s.fail(c, models.NewValidationError("year", "is required"))
		return
	}

	stats, err := s.svc.Sales.MonthlyStats(c.Request.Context(), year)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": stats})
}
