package usecase_recommend

import "github.com/humanbelnik/movienight/core/internal/model"

// AttendanceCollector walks the members one at a time in directory order.
// State is the index of the active member plus the apply-to-remaining flag.
type AttendanceCollector struct {
	members    []*model.GroupMember
	index      int
	applyToAll bool
}

func NewAttendanceCollector(members []*model.GroupMember) *AttendanceCollector {
	return &AttendanceCollector{members: members}
}

// CollectAutomatic marks every member Present if their person ID is part of
// the presence snapshot and Absent otherwise.
func CollectAutomatic(members []*model.GroupMember, snapshot []string) *AttendanceCollector {
	inChannel := make(map[string]struct{}, len(snapshot))
	for _, p := range snapshot {
		inChannel[p] = struct{}{}
	}

	for _, m := range members {
		if _, ok := inChannel[m.Person]; ok {
			m.Attendance = model.AttendancePresent
		} else {
			m.Attendance = model.AttendanceAbsent
		}
	}

	return &AttendanceCollector{
		members: members,
		index:   len(members),
	}
}

func (a *AttendanceCollector) Done() bool {
	return a.index >= len(a.members)
}

// Active returns the member being asked about, nil once attendance is done.
func (a *AttendanceCollector) Active() *model.GroupMember {
	if a.Done() {
		return nil
	}
	return a.members[a.index]
}

func (a *AttendanceCollector) ApplyToRemaining() bool {
	return a.applyToAll
}

func (a *AttendanceCollector) ToggleApplyToRemaining() {
	a.applyToAll = !a.applyToAll
}

// Apply marks the active member with status and advances. With the
// apply-to-remaining toggle on, every member not yet decided gets the same
// status in this one step.
func (a *AttendanceCollector) Apply(status model.Attendance) {
	if a.Done() || status == model.AttendanceUnset {
		return
	}

	last := a.index + 1
	if a.applyToAll {
		last = len(a.members)
	}

	for ; a.index < last; a.index++ {
		a.members[a.index].Attendance = status
	}
}

// Roll returns the person IDs grouped by status, in directory order.
func (a *AttendanceCollector) Roll() (present, ignored, absent []string) {
	present, ignored, absent = []string{}, []string{}, []string{}
	for _, m := range a.members {
		switch m.Attendance {
		case model.AttendancePresent:
			present = append(present, m.Person)
		case model.AttendanceIgnored:
			ignored = append(ignored, m.Person)
		case model.AttendanceAbsent:
			absent = append(absent, m.Person)
		}
	}
	return present, ignored, absent
}

func (a *AttendanceCollector) PresentCount() int {
	n := 0
	for _, m := range a.members {
		if m.Attendance == model.AttendancePresent {
			n++
		}
	}
	return n
}
