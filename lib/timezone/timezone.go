package timezone

import (
	"time"

	_ "time/tzdata"
)

// Location is where the marketplace sells, listing times are displayed in
// it regardless of where the server runs.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
}

// Now is the current time in UTC, which is how times are stored.
func Now() time.Time {
	return time.Now().UTC()
}

const displayLayout = "2006-01-02 15:04"

// Format renders `t` in marketplace time.
func Format(t time.Time) string {
	return t.In(Location).Format(displayLayout)
}
