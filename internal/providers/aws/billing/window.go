package billing

import "time"

// DateLayout is the Cost Explorer date format.
const DateLayout = "2006-01-02"

// Window is a half-open [Start, End) date range in Cost Explorer format.
type Window struct {
	Start string
	End   string
}

// DailyWindow returns [yesterday, today) in UTC relative to now. The window
// always spans exactly one calendar day.
func DailyWindow(now time.Time) Window {
	today := now.UTC()
	return Window{
		Start: today.AddDate(0, 0, -1).Format(DateLayout),
		End:   today.Format(DateLayout),
	}
}
