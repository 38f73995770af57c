package timetable

import "fmt"

// CheckFeasible runs cheap static checks before a full generation attempt and
// returns a descriptive error for the first problem found, or nil. The check
// is deliberately approximate: passing it does not guarantee Generate will
// succeed, and a generation failure is authoritative over this optimism.
func CheckFeasible(in Inputs) error {
	switch {
	case len(in.Courses) == 0:
		return fmt.Errorf("no courses defined")
	case len(in.Classrooms) == 0:
		return fmt.Errorf("no classrooms defined")
	case len(in.Teachers) == 0:
		return fmt.Errorf("no teachers defined")
	case len(in.Groups) == 0:
		return fmt.Errorf("no student groups defined")
	case len(in.TimeSlots) == 0:
		return fmt.Errorf("no time slots defined")
	}

	coursesByDepartment := make(map[string]int, len(in.Courses))
	for _, course := range in.Courses {
		coursesByDepartment[course.Department]++
	}
	for _, group := range in.Groups {
		if coursesByDepartment[group.Department] == 0 {
			return fmt.Errorf("group %s: department %s has no courses", group.Name, group.Department)
		}
	}

	maxCapacity := 0
	for _, room := range in.Classrooms {
		if room.Capacity > maxCapacity {
			maxCapacity = room.Capacity
		}
	}
	for _, course := range in.Courses {
		if course.MinCapacity > maxCapacity {
			return fmt.Errorf("course %s: minimum capacity %d exceeds every classroom (largest is %d)",
				course.Code, course.MinCapacity, maxCapacity)
		}
		if len(equipmentTokens(course.RequiredEquipment)) == 0 {
			continue
		}
		satisfiable := false
		for _, room := range in.Classrooms {
			if room.Capacity < course.MinCapacity {
				continue
			}
			if equipmentSatisfied(course.RequiredEquipment, room.Equipment) {
				satisfiable = true
				break
			}
		}
		if !satisfiable {
			return fmt.Errorf("course %s: no classroom with capacity >= %d offers equipment %q",
				course.Code, course.MinCapacity, course.RequiredEquipment)
		}
	}

	courseByID := make(map[string]int, len(in.Courses))
	for _, course := range in.Courses {
		courseByID[course.ID] = course.PeriodsPerWeek
	}
	totalPeriods := 0
	for _, courseIDs := range in.GroupCourses {
		for _, courseID := range courseIDs {
			totalPeriods += courseByID[courseID]
		}
	}
	// Necessary but not sufficient capacity bound.
	if capacity := len(in.TimeSlots) * len(in.Groups); totalPeriods > capacity {
		return fmt.Errorf("assigned courses need %d weekly periods but only %d slot positions exist across %d groups",
			totalPeriods, capacity, len(in.Groups))
	}
	return nil
}
