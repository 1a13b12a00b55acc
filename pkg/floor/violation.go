package floor

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/floorplanner/pkg/group"
)

var (
	// ErrUnknownFloor is returned when a floor ID is not part of the plan.
	ErrUnknownFloor = errors.New("floor: unknown floor")
	// ErrUnknownGroup is returned when a group ID is not in the registry.
	ErrUnknownGroup = errors.New("floor: unknown group")
	// ErrBadIndex is returned by Reorder for positions outside the plan.
	ErrBadIndex = errors.New("floor: position out of range")
	// ErrInvariant is returned by Plan.Check when placement invariants fail.
	ErrInvariant = errors.New("floor: placement invariant violated")
)

// ViolationKind names the placement rule an assignment broke.
type ViolationKind string

const (
	ViolationDuplicate ViolationKind = "duplicate_placement"
	ViolationCapacity  ViolationKind = "capacity_exceeded"
)

// Violation describes a rejected assignment. The plan is unchanged when one
// is returned. It is a signal for the caller to show, not an error.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	GroupID   group.ID      `json:"group_id"`
	GroupName string        `json:"group_name"`
	FloorID   ID            `json:"floor_id"`
	FloorName string        `json:"floor_name"`
	// PeopleCount is the rejected group's size.
	PeopleCount int `json:"people_count"`
	// FloorPeople is the target floor's population before the assignment.
	FloorPeople int `json:"floor_people"`
	Capacity    int `json:"capacity"`
	// HeldBy is the floor already holding the group, for duplicates.
	HeldBy     ID     `json:"held_by,omitempty"`
	HeldByName string `json:"held_by_name,omitempty"`
}

// Message renders the violation for a user-facing warning.
func (v *Violation) Message() string {
	switch v.Kind {
	case ViolationDuplicate:
		if v.HeldBy == v.FloorID {
			return fmt.Sprintf("%s is already on %s", v.GroupName, v.FloorName)
		}
		return fmt.Sprintf("%s is already placed on %s", v.GroupName, v.HeldByName)
	case ViolationCapacity:
		return fmt.Sprintf("%s (%d people) does not fit on %s: %d + %d exceeds capacity %d",
			v.GroupName, v.PeopleCount, v.FloorName, v.FloorPeople, v.PeopleCount, v.Capacity)
	}
	return fmt.Sprintf("%s cannot be placed on %s", v.GroupName, v.FloorName)
}
