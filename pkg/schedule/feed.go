package schedule

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// BuildFeed renders occurrences as an iCalendar document so external
// calendar clients can subscribe to the alarm schedule. Event UIDs are
// derived from the source binding, which keeps them stable across refreshes.
func BuildFeed(name string, occurrences []Occurrence, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Alario//Alarm Schedule//EN")
	cal.SetName(name)

	for _, occ := range occurrences {
		source := occ.PatternID
		if source == "" {
			source = occ.AlarmID
		}
		uid := fmt.Sprintf("%s-%s-%s@alario", source, occ.Date, occ.Start.Format("1504"))
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now)
		event.SetStartAt(occ.Start)
		event.SetEndAt(occ.End)
		event.SetSummary(occ.Title)
	}
	return cal.Serialize()
}
