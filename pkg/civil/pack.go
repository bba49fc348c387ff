package civil

// Bit layout of the packed form, least significant field first.
const (
	secondsShift = 0
	minutesShift = 6
	monthShift   = 12
	hoursShift   = 16
	dateShift    = 21
	yearShift    = 26

	sixBits  = 0x3f
	fiveBits = 0x1f
	fourBits = 0x0f
)

// Pack encodes dt into the 32-bit layout used by real time clock registers:
// seconds:6, minutes:6, month:4, hours:5, date:5, year:6, least significant
// first. Fields wider than their slot are truncated to it, so only years
// 2000-2063 survive the trip.
func (dt DateTime) Pack() uint32 {
	return uint32(dt.Seconds)&sixBits<<secondsShift |
		uint32(dt.Minutes)&sixBits<<minutesShift |
		uint32(dt.Month)&fourBits<<monthShift |
		uint32(dt.Hours)&fiveBits<<hoursShift |
		uint32(dt.Date)&fiveBits<<dateShift |
		uint32(dt.Year)&sixBits<<yearShift
}

// Unpack decodes a value produced by Pack.
func Unpack(v uint32) DateTime {
	return DateTime{
		Seconds: int(v >> secondsShift & sixBits),
		Minutes: int(v >> minutesShift & sixBits),
		Month:   int(v >> monthShift & fourBits),
		Hours:   int(v >> hoursShift & fiveBits),
		Date:    int(v >> dateShift & fiveBits),
		Year:    int(v >> yearShift & sixBits),
	}
}
