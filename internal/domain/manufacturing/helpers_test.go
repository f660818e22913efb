package manufacturing

import "time"

func mustDate(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 10, 0, 0, 0, time.UTC)
}
