package xlbind

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	epoch1900    = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904    = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	leapBugStart = time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)
)

const msPerDay = 24 * 60 * 60 * 1000

// TimeToSerial converts t to a serial day count. The wall-clock fields of t
// are used as they are, whatever its location. Fractions are kept to the
// millisecond.
//
// In the 1900 system dates before 1900-03-01 are one lower than the plain
// day count, because the format counts a 29 February 1900.
func TimeToSerial(t time.Time, date1904 bool) (float64, error) {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	serial := float64(wall.UnixMilli()-epoch.UnixMilli()) / msPerDay
	if !date1904 && wall.Before(leapBugStart) {
		serial--
	}
	if serial < 0 {
		return 0, fmt.Errorf("%w: date %s is before the workbook epoch", ErrUnsupportedValueType, t.Format(time.DateOnly))
	}
	return serial, nil
}

// SerialToTime converts a serial day count back to a UTC time.
func SerialToTime(serial float64, date1904 bool) (time.Time, error) {
	return excelize.ExcelDateToTime(serial, date1904)
}
