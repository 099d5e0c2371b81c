package app

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/available-slots?date=YYYY-MM-DD
func (a *App) GetAvailableSlotsHandler(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date parameter is required"})
		return
	}
	if _, err := time.ParseInLocation(DateLayout, dateStr, a.Loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date must be YYYY-MM-DD"})
		return
	}

	slots, err := a.GetAvailableSlots(c.Request.Context(), dateStr)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "failed to compute availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "availableSlots": slots})
}

// POST /api/bookings/book-slot
func (a *App) BookSlotHandler(c *gin.Context) {
	var req BookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if _, err := time.ParseInLocation(DateLayout, req.Date, a.Loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "date must be YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse(TimeLayout, req.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "startTime must be HH:mm"})
		return
	}
	if req.Duration < 1 || req.Duration > a.MaxDuration {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "duration must be between 1 and " + strconv.Itoa(a.MaxDuration) + " hours",
		})
		return
	}

	conf, err := a.CreateBooking(c.Request.Context(), req)
	if errors.Is(err, ErrNoAvailability) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "No available bays for the selected time and duration."})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "failed to confirm booking, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Booking confirmed for " + conf.Bay + " from " + conf.StartTime + " for " + strconv.Itoa(conf.Duration) + " hour(s).",
		"bookingDetails": conf,
	})
}

// GET /api/bookings/my-bookings
func (a *App) MyBookingsHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unknown user"})
		return
	}
	if a.Bookings == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "bookings": []BookingRecord{}})
		return
	}

	bookings, err := a.Bookings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load bookings"})
		return
	}
	if bookings == nil {
		bookings = []BookingRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// POST /api/util/clear-cache
func (a *App) ClearCacheHandler(c *gin.Context) {
	a.Cache.Flush()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cache cleared successfully"})
}
