package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"faceattend/internal/ledger"
)

type markAttendanceRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

// MarkAttendance records the employee present for today. Marking an employee
// who already has a record today is a 200 with the existing record; only a
// fresh record is a 201.
func (h *Handler) MarkAttendance(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee ID is required"})
		return
	}

	res, err := h.attendance.Mark(c.Request.Context(), caller.CompanyID, req.EmployeeID)
	if err != nil {
		h.fail(c, err, "attendance marking failed")
		return
	}

	if res.Already {
		c.JSON(http.StatusOK, gin.H{
			"message":    "attendance already marked for today",
			"attendance": res.Record,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "attendance marked successfully",
		"attendance": res.Record,
	})
}

// TodayAttendance lists the company's records since local midnight.
func (h *Handler) TodayAttendance(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entries, err := h.attendance.ListToday(c.Request.Context(), caller.CompanyID)
	if err != nil {
		h.fail(c, err, "failed to fetch today's attendance")
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// AllAttendance lists every record for the company, newest first.
func (h *Handler) AllAttendance(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entries, err := h.attendance.ListAll(c.Request.Context(), caller.CompanyID)
	if err != nil {
		h.fail(c, err, "failed to fetch attendance")
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}
