package event

import "strconv"

var periodNames = map[int64]string{
	1:      "1sec",
	5:      "5sec",
	10:     "10sec",
	15:     "15sec",
	30:     "30sec",
	60:     "1min",
	300:    "5min",
	600:    "10min",
	900:    "15min",
	1800:   "30min",
	3600:   "1hr",
	86400:  "1day",
	604800: "1wk",
}

// DailyPeriod is the bar period of end-of-day data.
const DailyPeriod int64 = 86400

// PeriodReadable names common bar periods, e.g. 86400 -> "1day".
func (e Bar) PeriodReadable() string {
	if s, ok := periodNames[e.Period]; ok {
		return s
	}
	return strconv.FormatInt(e.Period, 10) + "sec"
}
