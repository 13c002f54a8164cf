package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePhotoURL(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		path   string
		want   string
	}{
		{"empty", "http://localhost:3001", "", ""},
		{"absolute http", "http://localhost:3001", "http://cdn.example.com/a.jpg", "http://cdn.example.com/a.jpg"},
		{"absolute https", "http://localhost:3001", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"leading slash", "http://localhost:3001", "/uploads/a.jpg", "http://localhost:3001/uploads/a.jpg"},
		{"no leading slash", "http://localhost:3001", "uploads/a.jpg", "http://localhost:3001/uploads/a.jpg"},
		{"origin trailing slash", "http://localhost:3001/", "/uploads/a.jpg", "http://localhost:3001/uploads/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePhotoURL(tt.origin, tt.path))
		})
	}
}

func TestAttendance_Duration(t *testing.T) {
	in := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)

	open := Attendance{CheckInTime: in}
	assert.False(t, open.CheckedOut())
	assert.Zero(t, open.Duration())

	closed := Attendance{CheckInTime: in, CheckOutTime: &out}
	assert.True(t, closed.CheckedOut())
	assert.Equal(t, 8*time.Hour+30*time.Minute, closed.Duration())
}

func TestDefaultListParams(t *testing.T) {
	p := DefaultListParams("2024-01-15")
	v := p.Values()
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "checkInTime", v.Get("sortBy"))
	assert.Equal(t, "desc", v.Get("sortOrder"))
	assert.Equal(t, "2024-01-15", v.Get("startDate"))
	assert.Equal(t, "2024-01-15", v.Get("endDate"))
	assert.False(t, v.Has("userId"))
}

func TestValidateFilters(t *testing.T) {
	ok := DefaultListParams("2024-01-15")
	assert.NoError(t, ValidateFilters(ok))

	assert.NoError(t, ValidateFilters(listquery.Params{}))

	bad := ok.WithFilter(FilterStartDate, "15/01/2024")
	err := ValidateFilters(bad)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), FilterStartDate)

	reversed := ok.WithFilter(FilterStartDate, "2024-02-01")
	require.ErrorAs(t, ValidateFilters(reversed), &verrs)
	assert.Equal(t, ErrInvalidDateRange.Error(), verrs.ToMap()[FilterEndDate])

	unsorted := ok.WithSort("name")
	require.ErrorAs(t, ValidateFilters(unsorted), &verrs)
	assert.Contains(t, verrs.ToMap(), "sortBy")
}
