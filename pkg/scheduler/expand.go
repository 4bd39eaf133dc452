package scheduler

import (
	"fmt"
	"sort"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

type slotKey struct {
	roleID     uint
	date       string
	start, end string
}

// ExpandSlots turns a date range and the role staffing templates into the
// ordered list of unit shift slots needing coverage. Every (role, date,
// window) combination implied by the templates appears exactly once per
// headcount unit; existing assignments covering a combination consume units
// and mark them pre-filled. Order is deterministic: date, role id, template
// order, unit index.
func ExpandSlots(startDate, endDate string, roles map[uint]*models.Role, existing []models.Assignment) ([]models.ShiftSlot, error) {
	start, err := models.ParseDate(startDate)
	if err != nil {
		return nil, &models.ConfigurationError{Reason: err.Error()}
	}
	end, err := models.ParseDate(endDate)
	if err != nil {
		return nil, &models.ConfigurationError{Reason: err.Error()}
	}
	if end.Before(start) {
		return nil, &models.ConfigurationError{Reason: fmt.Sprintf("end date %s before start date %s", endDate, startDate)}
	}

	roleIDs := make([]uint, 0, len(roles))
	for id := range roles {
		roleIDs = append(roleIDs, id)
	}
	sort.Slice(roleIDs, func(i, j int) bool { return roleIDs[i] < roleIDs[j] })

	for _, id := range roleIDs {
		if err := validateTemplate(roles[id]); err != nil {
			return nil, err
		}
	}

	// Each existing assignment consumes one headcount unit of its combination
	consumed := make(map[slotKey]int)
	for _, a := range existing {
		consumed[slotKey{a.RoleID, a.Date, a.StartTime, a.EndTime}]++
	}

	var slots []models.ShiftSlot
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(models.DateLayout)
		weekday := int(d.Weekday())
		for _, id := range roleIDs {
			role := roles[id]
			for _, ts := range role.Template {
				if !containsDay(ts.Weekdays, weekday) {
					continue
				}
				key := slotKey{id, date, ts.Start, ts.End}
				for unit := 0; unit < ts.Headcount; unit++ {
					prefilled := false
					if consumed[key] > 0 {
						consumed[key]--
						prefilled = true
					}
					slots = append(slots, models.ShiftSlot{
						RoleID:    id,
						Date:      date,
						StartTime: ts.Start,
						EndTime:   ts.End,
						PreFilled: prefilled,
					})
				}
			}
		}
	}
	return slots, nil
}

func validateTemplate(role *models.Role) error {
	if len(role.Template) == 0 {
		return &models.ConfigurationError{Reason: fmt.Sprintf("role %q has no staffing template", role.Name)}
	}
	for i, ts := range role.Template {
		start, err := models.ParseClock(ts.Start)
		if err != nil {
			return &models.ConfigurationError{Reason: fmt.Sprintf("role %q template shift %d: %v", role.Name, i, err)}
		}
		end, err := models.ParseClock(ts.End)
		if err != nil {
			return &models.ConfigurationError{Reason: fmt.Sprintf("role %q template shift %d: %v", role.Name, i, err)}
		}
		if end <= start {
			return &models.ConfigurationError{Reason: fmt.Sprintf("role %q template shift %d: end %s not after start %s", role.Name, i, ts.End, ts.Start)}
		}
		if ts.Headcount < 1 {
			return &models.ConfigurationError{Reason: fmt.Sprintf("role %q template shift %d: headcount %d", role.Name, i, ts.Headcount)}
		}
		if len(ts.Weekdays) == 0 {
			return &models.ConfigurationError{Reason: fmt.Sprintf("role %q template shift %d: no weekdays", role.Name, i)}
		}
		for _, wd := range ts.Weekdays {
			if wd < 0 || wd > 6 {
				return &models.ConfigurationError{Reason: fmt.Sprintf("role %q template shift %d: weekday %d out of range", role.Name, i, wd)}
			}
		}
	}
	return nil
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
