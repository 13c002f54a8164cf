package attendance

import (
	"strings"
	"time"
)

// Person is the user summary embedded in an attendance record.
type Person struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Attendance is one check-in, with its check-out once recorded.
type Attendance struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	User         Person     `json:"user"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	PhotoURL     string     `json:"photoUrl"`
}

// CheckedOut reports whether a check-out was recorded.
func (a Attendance) CheckedOut() bool {
	return a.CheckOutTime != nil
}

// Duration is the time between check-in and check-out, or zero while checked in.
func (a Attendance) Duration() time.Duration {
	if a.CheckOutTime == nil {
		return 0
	}
	return a.CheckOutTime.Sub(a.CheckInTime)
}

// ResolvePhotoURL makes a stored photo path absolute. Values that already start
// with "http" pass through; relative paths are joined to origin.
func ResolvePhotoURL(origin, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(origin, "/") + path
}
