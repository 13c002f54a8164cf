package dashboard

// Stats are the dashboard's headline counts.
type Stats struct {
	TotalEmployees int
	TodayCheckIns  int
	Today          string
}
