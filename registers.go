package ds1307

// Register map, from the DS1307 datasheet:
//
//	Addr | Bit7 | 6     | 5     | 4        | 3 | 2 | 1   | 0   | Func    | Range
//	0x00 | CH   | 10 Seconds               | Seconds           | Seconds | 00-59
//	0x01 | 0    | 10 Minutes               | Minutes           | Minutes | 00-59
//	0x02 | 0    | 12/24 | 10 Hours         | Hour              | Hours   | 00-23
//	                    | AM/PM | 10 Hours | Hour              | Hours   | 01-12
//	0x03 | 0    | 0     | 0     | 0        | 0 | Day           | Day     | 01-07
//	0x04 | 0    | 0     | 10 Date          | Date              | Date    | 01-31
//	0x05 | 0    | 0     | 0     | 10 Month | Month             | Month   | 01-12
//	0x06 | 10 Year                         | Year              | Year    | 00-99
//	0x07 | OUT  | 0     | 0    | SQWE      | 0 | 0 | RS1 | RS0 | Control | -
//	0x08~0x3F                                                  | RAM 56x8| 00-FF

const (
	DefaultAddress = 0x68 // I2C address for DS1307

	// RAMSize is the number of bytes of battery-backed scratch RAM.
	RAMSize = 56

	regSeconds = 0x00
	regMinutes = 0x01
	regHours   = 0x02
	regDay     = 0x03 // weekday, 1-7
	regDate    = 0x04 // day of month
	regMonth   = 0x05
	regYear    = 0x06 // two-digit BCD
	regControl = 0x07
	regRAM     = 0x08

	secondsCH   = 1 << 7 // clock halt
	secondsMask = 0x7f
	minutesMask = 0x7f

	hours12     = 1 << 6 // 12-hour mode
	hoursPM     = 1 << 5 // valid in 12-hour mode only
	hours12Mask = 0x1f
	hours24Mask = 0x3f

	dayMask   = 0x07
	dateMask  = 0x3f
	monthMask = 0x1f

	controlOUT    = 1 << 7
	controlSQWE   = 1 << 4
	controlRSMask = 0x03
)

// RateSelect chooses the SQW/OUT pin frequency while the square wave output is enabled.
type RateSelect uint8

const (
	Rate1Hz RateSelect = iota
	Rate4096Hz
	Rate8192Hz
	Rate32768Hz
)
