package model

// Meeting занятый интервал внутри события
type Meeting struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Event группа занятых интервалов (например, один день календаря)
type Event struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Meetings []Meeting `json:"meetings"`
}

// MeetingsCount считает встречи во всех событиях
func MeetingsCount(events []Event) int {
	total := 0
	for _, event := range events {
		total += len(event.Meetings)
	}
	return total
}
