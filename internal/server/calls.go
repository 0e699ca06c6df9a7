package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	calendardomain "github.com/smallbiznis/mentorhub/internal/calendar/domain"
	callprepdomain "github.com/smallbiznis/mentorhub/internal/callprep/domain"
)

func (s *Server) ListUpcomingCalls(c *gin.Context) {
	start, err := parseOptionalTime(c.Query("start"))
	if err != nil {
		AbortWithError(c, newValidationError("start", "invalid_start", "invalid start"))
		return
	}
	end, err := parseOptionalTime(c.Query("end"))
	if err != nil {
		AbortWithError(c, newValidationError("end", "invalid_end", "invalid end"))
		return
	}

	calls, err := s.callprepSvc.GetUpcomingCalls(c.Request.Context(), callprepdomain.UpcomingCallsRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": calls})
}

type connectCalendarRequest struct {
	CalendarID   string `json:"calendarId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Expiry       string `json:"expiry"`
}

func (s *Server) ConnectCalendar(c *gin.Context) {
	var req connectCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expiry, err := parseOptionalTime(req.Expiry)
	if err != nil {
		AbortWithError(c, newValidationError("expiry", "invalid_expiry", "invalid expiry"))
		return
	}

	if err := s.calendar.Connect(c.Request.Context(), calendardomain.ConnectRequest{
		CalendarID:   req.CalendarID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Expiry:       expiry,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
