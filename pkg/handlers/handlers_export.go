package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

type exportRow struct {
	assignment models.Assignment
	employee   string
	role       string
}

func (h *Handler) exportRows(start, end string) ([]exportRow, error) {
	var assignments []models.Assignment
	if err := h.DB.Where("date BETWEEN ? AND ?", start, end).
		Order("date, start_time, id").Find(&assignments).Error; err != nil {
		return nil, err
	}

	var employees []models.Employee
	if err := h.DB.Find(&employees).Error; err != nil {
		return nil, err
	}
	var roles []models.Role
	if err := h.DB.Find(&roles).Error; err != nil {
		return nil, err
	}

	empNames := make(map[uint]string, len(employees))
	for _, e := range employees {
		empNames[e.ID] = e.Name
	}
	roleNames := make(map[uint]string, len(roles))
	for _, r := range roles {
		roleNames[r.ID] = r.Name
	}

	rows := make([]exportRow, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, exportRow{
			assignment: a,
			employee:   empNames[a.EmployeeID],
			role:       roleNames[a.RoleID],
		})
	}
	return rows, nil
}

// ExportScheduleXLSX writes the schedule for a date range as a spreadsheet
func (h *Handler) ExportScheduleXLSX(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}

	rows, err := h.exportRows(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch schedules"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Schedule"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Employee", "Role", "Start", "End", "Hours", "Status", "Notes"}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	for i, row := range rows {
		a := row.assignment
		values := []interface{}{
			a.Date,
			row.employee,
			row.role,
			a.StartTime,
			a.EndTime,
			models.HoursBetween(a.StartTime, a.EndTime),
			a.Status,
			a.Notes,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule_%s_%s.xlsx"`, start, end))
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// ExportScheduleCSV writes the schedule for a date range as CSV
func (h *Handler) ExportScheduleCSV(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}

	rows, err := h.exportRows(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch schedules"})
		return
	}

	var out strings.Builder
	writer := csv.NewWriter(&out)
	writer.Write([]string{"date", "employee", "role", "start_time", "end_time", "duration_hours", "status", "notes"})
	for _, row := range rows {
		a := row.assignment
		writer.Write([]string{
			a.Date,
			row.employee,
			row.role,
			a.StartTime,
			a.EndTime,
			fmt.Sprintf("%.2f", models.HoursBetween(a.StartTime, a.EndTime)),
			a.Status,
			a.Notes,
		})
	}
	writer.Flush()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule_%s_%s.csv"`, start, end))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out.String()))
}
