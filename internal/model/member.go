package model

// Account is one linked entry of the account directory.
type Account struct {
	Person string `db:"member"`
	Handle string `db:"account"`
}

type Attendance int

const (
	AttendanceUnset Attendance = iota
	AttendancePresent
	AttendanceIgnored
	AttendanceAbsent
)

func (a Attendance) String() string {
	switch a {
	case AttendancePresent:
		return "present"
	case AttendanceIgnored:
		return "ignored"
	case AttendanceAbsent:
		return "absent"
	default:
		return "unset"
	}
}

type GroupMember struct {
	Account    string
	Person     string
	Attendance Attendance

	Lists MovieLists
}

func NewGroupMember(a Account) *GroupMember {
	return &GroupMember{
		Account: a.Handle,
		Person:  a.Person,
	}
}
