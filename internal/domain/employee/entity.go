package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
)

// Employee is a user account as the HRIS API returns it.
type Employee struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Initials returns up to two leading letters of the name for avatars.
func (e Employee) Initials() string {
	var out []rune
	start := true
	for _, r := range e.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
			if len(out) == 2 {
				break
			}
		}
	}
	return string(out)
}
