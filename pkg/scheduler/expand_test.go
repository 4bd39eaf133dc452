package scheduler

import (
	"errors"
	"testing"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

func weekdayRole(id uint, skill string, headcount int) *models.Role {
	return &models.Role{
		ID:            id,
		Name:          "Cashier",
		RequiredSkill: skill,
		Template: []models.TemplateShift{
			{Weekdays: []int{1, 2, 3, 4, 5}, Start: "09:00", End: "17:00", Headcount: headcount},
		},
	}
}

func TestExpandSlots(t *testing.T) {
	roles := map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)}

	// 2024-01-01 is a Monday; the range covers Mon-Sun
	slots, err := ExpandSlots("2024-01-01", "2024-01-07", roles, nil)
	if err != nil {
		t.Fatalf("ExpandSlots returned error: %v", err)
	}

	if len(slots) != 5 {
		t.Errorf("Expected 5 weekday slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.PreFilled {
			t.Errorf("Expected no pre-filled slots, got one on %s", s.Date)
		}
	}
	if slots[0].Date != "2024-01-01" || slots[4].Date != "2024-01-05" {
		t.Errorf("Slots out of order: first %s last %s", slots[0].Date, slots[4].Date)
	}
}

func TestExpandSlotsHeadcount(t *testing.T) {
	roles := map[uint]*models.Role{1: weekdayRole(1, "cashier", 3)}

	slots, err := ExpandSlots("2024-01-01", "2024-01-01", roles, nil)
	if err != nil {
		t.Fatalf("ExpandSlots returned error: %v", err)
	}
	if len(slots) != 3 {
		t.Errorf("Expected 3 unit slots for headcount 3, got %d", len(slots))
	}
}

func TestExpandSlotsPrefill(t *testing.T) {
	roles := map[uint]*models.Role{1: weekdayRole(1, "cashier", 2)}

	existing := []models.Assignment{
		{EmployeeID: 7, RoleID: 1, Date: "2024-01-01", StartTime: "09:00", EndTime: "17:00", Status: models.StatusConfirmed},
	}

	slots, err := ExpandSlots("2024-01-01", "2024-01-01", roles, existing)
	if err != nil {
		t.Fatalf("ExpandSlots returned error: %v", err)
	}

	prefilled := 0
	for _, s := range slots {
		if s.PreFilled {
			prefilled++
		}
	}
	if len(slots) != 2 || prefilled != 1 {
		t.Errorf("Expected 2 slots with 1 pre-filled, got %d slots with %d pre-filled", len(slots), prefilled)
	}
}

func TestExpandSlotsMalformedTemplate(t *testing.T) {
	cases := []struct {
		name string
		role *models.Role
	}{
		{"empty template", &models.Role{ID: 1, Name: "Cashier"}},
		{"end before start", &models.Role{ID: 1, Name: "Cashier", Template: []models.TemplateShift{
			{Weekdays: []int{1}, Start: "17:00", End: "09:00", Headcount: 1},
		}}},
		{"end equals start", &models.Role{ID: 1, Name: "Cashier", Template: []models.TemplateShift{
			{Weekdays: []int{1}, Start: "09:00", End: "09:00", Headcount: 1},
		}}},
		{"bad clock", &models.Role{ID: 1, Name: "Cashier", Template: []models.TemplateShift{
			{Weekdays: []int{1}, Start: "nine", End: "17:00", Headcount: 1},
		}}},
		{"zero headcount", &models.Role{ID: 1, Name: "Cashier", Template: []models.TemplateShift{
			{Weekdays: []int{1}, Start: "09:00", End: "17:00", Headcount: 0},
		}}},
		{"no weekdays", &models.Role{ID: 1, Name: "Cashier", Template: []models.TemplateShift{
			{Start: "09:00", End: "17:00", Headcount: 1},
		}}},
		{"weekday out of range", &models.Role{ID: 1, Name: "Cashier", Template: []models.TemplateShift{
			{Weekdays: []int{7}, Start: "09:00", End: "17:00", Headcount: 1},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExpandSlots("2024-01-01", "2024-01-07", map[uint]*models.Role{1: tc.role}, nil)
			var cfgErr *models.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected ConfigurationError, got %v", err)
			}
		})
	}
}

func TestExpandSlotsBadRange(t *testing.T) {
	roles := map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)}
	_, err := ExpandSlots("2024-01-07", "2024-01-01", roles, nil)
	var cfgErr *models.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError for inverted range, got %v", err)
	}
}
