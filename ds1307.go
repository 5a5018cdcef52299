// Package ds1307 implements a driver for the DS1307 Real-Time Clock (RTC), providing read-write of the current time,
// the chip's control bits, and its 56 bytes of battery-backed RAM. Writing the time never disturbs the clock-halt bit
// or the 12/24-hour mode already on the chip; use SetHalted and SetMode12Hour for those.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/DS1307.pdf
package ds1307

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

var (
	// ErrMissingBus is returned when the device has no I2C bus: it was created with a nil bus or has been closed.
	ErrMissingBus = errors.New("ds1307: no I2C bus")
	// ErrRAMBounds is returned when a RAM access does not fit inside the 56-byte region.
	ErrRAMBounds = errors.New("ds1307: RAM access out of range")
)

type Device struct {
	bus      drivers.I2C
	addr     uint8
	yearBase int
}

type Config struct {
	Address uint8
	// Century interprets the chip's two-digit year. Zero selects century 21 (years 2000-2099), so a chip reading 25
	// means 2025. Negative values count centuries before year 1 and are shifted up by one, so -1 yields a year base
	// of -100.
	Century int
}

// RawTime mirrors the chip's seven time registers with no calendar normalization applied. Second through Year hold
// register-native BCD values; the 12-hour mode and AM/PM flags of the hours register are split out into Hour12 and
// PM. Day is the weekday and Date the day of the month, following the datasheet's names.
type RawTime struct {
	Second uint8 // BCD, clock-halt bit masked out
	Minute uint8 // BCD
	Hour   uint8 // BCD; 1-12 with the flags masked out when Hour12 is set, else 0-23
	Day    uint8 // weekday, 1-7
	Date   uint8 // BCD day of month
	Month  uint8 // BCD, 1-12
	Year   uint8 // BCD, 00-99
	Hour12 bool
	PM     bool // meaningful only when Hour12 is set
}

// New creates a new DS1307 driver on the specified preconfigured I2C bus. The chip supports 100 kHz only.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus}
}

// Configure sets the device address (DefaultAddress when zero) and resolves the century used to expand the chip's
// two-digit year.
func (d *Device) Configure(c Config) error {
	if d.bus == nil {
		return ErrMissingBus
	}
	if c.Address == 0 {
		c.Address = DefaultAddress
	}
	d.addr = c.Address

	century := c.Century
	if century == 0 {
		century = 21
	} else if century < 0 {
		century++
	}
	d.yearBase = (century - 1) * 100
	return nil
}

// Close releases the bus reference. Every operation on a closed device reports ErrMissingBus.
func (d *Device) Close() error {
	if d.bus == nil {
		return ErrMissingBus
	}
	d.bus = nil
	return nil
}

// ReadTime returns the current time, normalized to 24-hour form regardless of the mode the chip is keeping time in.
// The chip's weekday register is not consulted; the weekday of the returned time follows from the date.
func (d *Device) ReadTime() (time.Time, error) {
	if d.bus == nil {
		return time.Time{}, ErrMissingBus
	}
	buf := [7]byte{}
	err := d.bus.ReadRegister(d.addr, regSeconds, buf[:])
	if err != nil {
		return time.Time{}, err
	}

	seconds := bcdToDec(buf[0] & secondsMask)
	minute := bcdToDec(buf[1])
	var hour int
	if buf[2]&hours12 != 0 {
		hour = int(from12Hour(buf[2]))
	} else {
		hour = bcdToDec(buf[2])
	}
	day := bcdToDec(buf[4])
	month := time.Month(bcdToDec(buf[5]))
	year := bcdToDec(buf[6]) + d.yearBase

	return time.Date(year, month, day, hour, minute, seconds, 0, time.UTC), nil
}

// SetTime sets the clock. The clock-halt bit and the 12/24-hour mode found on the chip are preserved, so setting the
// time neither starts a halted clock nor flips the display mode. The year is written modulo 100 relative to the
// configured century.
func (d *Device) SetTime(t time.Time) error {
	if d.bus == nil {
		return ErrMissingBus
	}
	cur := [3]byte{}
	err := d.bus.ReadRegister(d.addr, regSeconds, cur[:])
	if err != nil {
		return err
	}
	ch := cur[0] & secondsCH
	mode12 := cur[2]&hours12 != 0

	buf := [7]byte{}
	buf[0] = (decToBcd(t.Second()) & secondsMask) | ch
	buf[1] = decToBcd(t.Minute())
	if mode12 {
		buf[2] = to12Hour(uint8(t.Hour()))
	} else {
		buf[2] = decToBcd(t.Hour())
	}
	buf[3] = decToBcd(int(t.Weekday()) + 1)
	buf[4] = decToBcd(t.Day())
	buf[5] = decToBcd(int(t.Month()))
	year := (t.Year() - d.yearBase) % 100
	if year < 0 {
		year += 100
	}
	buf[6] = decToBcd(year)
	return d.bus.WriteRegister(d.addr, regSeconds, buf[:])
}

// ReadRaw returns the time registers as the chip stores them. No range checks or calendar normalization are applied.
func (d *Device) ReadRaw() (RawTime, error) {
	var rt RawTime
	if d.bus == nil {
		return rt, ErrMissingBus
	}
	buf := [7]byte{}
	err := d.bus.ReadRegister(d.addr, regSeconds, buf[:])
	if err != nil {
		return rt, err
	}

	rt.Second = buf[0] & secondsMask
	rt.Minute = buf[1]
	if buf[2]&hours12 != 0 {
		rt.Hour12 = true
		rt.PM = buf[2]&hoursPM != 0
		rt.Hour = buf[2] & hours12Mask
	} else {
		rt.Hour = buf[2]
	}
	rt.Day = buf[3]
	rt.Date = buf[4]
	rt.Month = buf[5]
	rt.Year = buf[6]
	return rt, nil
}

// SetRaw writes the time registers directly from rt, masking each field to its register width. The caller is
// responsible for keeping Hour consistent with Hour12 and PM; the driver does not cross-check them. The clock-halt
// bit on the chip is preserved.
func (d *Device) SetRaw(rt RawTime) error {
	if d.bus == nil {
		return ErrMissingBus
	}
	cur := [1]byte{}
	err := d.bus.ReadRegister(d.addr, regSeconds, cur[:])
	if err != nil {
		return err
	}
	ch := cur[0] & secondsCH

	buf := [7]byte{}
	buf[0] = (rt.Second & secondsMask) | ch
	buf[1] = rt.Minute & minutesMask
	if rt.Hour12 {
		buf[2] = (rt.Hour & hours12Mask) | hours12
		if rt.PM {
			buf[2] |= hoursPM
		}
	} else {
		buf[2] = rt.Hour & hours24Mask
	}
	buf[3] = rt.Day & dayMask
	buf[4] = rt.Date & dateMask
	buf[5] = rt.Month & monthMask
	buf[6] = rt.Year
	return d.bus.WriteRegister(d.addr, regSeconds, buf[:])
}

// Mode12Hour reports whether the chip is keeping time in 12-hour mode.
func (d *Device) Mode12Hour() (bool, error) {
	v, err := d.readReg(regHours)
	return v&hours12 != 0, err
}

// SetMode12Hour switches the chip between 12- and 24-hour mode, re-encoding the current hour so the time it shows
// does not change: a chip at 14:00 switched to 12-hour mode reads back as 2 PM. Nothing is written when the chip is
// already in the requested mode.
func (d *Device) SetMode12Hour(mode bool) error {
	hour, err := d.readReg(regHours)
	if err != nil {
		return err
	}
	var want uint8
	if mode {
		want = hours12
	}
	if hour&hours12 == want {
		return nil
	}
	if mode {
		hour = to12Hour(uint8(bcdToDec(hour)))
	} else {
		hour = decToBcd(int(from12Hour(hour)))
	}
	buf := [1]byte{hour}
	return d.bus.WriteRegister(d.addr, regHours, buf[:])
}

// Halted reports the clock-halt (CH) bit. A factory-fresh chip powers up halted.
func (d *Device) Halted() (bool, error) {
	v, err := d.readReg(regSeconds)
	return v&secondsCH != 0, err
}

// SetHalted stops the oscillator when halt is true and restarts it when false. The seconds value is untouched.
func (d *Device) SetHalted(halt bool) error {
	var v uint8
	if halt {
		v = secondsCH
	}
	return d.setReg(regSeconds, secondsCH, v)
}

// Output reports the OUT bit, which drives the SQW/OUT pin level while the square wave output is disabled.
func (d *Device) Output() (bool, error) {
	v, err := d.readReg(regControl)
	return v&controlOUT != 0, err
}

func (d *Device) SetOutput(level bool) error {
	var v uint8
	if level {
		v = controlOUT
	}
	return d.setReg(regControl, controlOUT, v)
}

// SquareWave reports the SQWE bit.
func (d *Device) SquareWave() (bool, error) {
	v, err := d.readReg(regControl)
	return v&controlSQWE != 0, err
}

// SetSquareWave enables or disables the square wave output on the SQW/OUT pin. The frequency is chosen with
// SetRateSelect.
func (d *Device) SetSquareWave(enable bool) error {
	var v uint8
	if enable {
		v = controlSQWE
	}
	return d.setReg(regControl, controlSQWE, v)
}

// RateSelect reports the square wave frequency selection.
func (d *Device) RateSelect() (RateSelect, error) {
	v, err := d.readReg(regControl)
	return RateSelect(v & controlRSMask), err
}

func (d *Device) SetRateSelect(rs RateSelect) error {
	return d.setReg(regControl, controlRSMask, uint8(rs)&controlRSMask)
}

// ReadRAM fills buf from the battery-backed RAM starting at offset.
func (d *Device) ReadRAM(offset uint8, buf []byte) error {
	if d.bus == nil {
		return ErrMissingBus
	}
	if int(offset)+len(buf) > RAMSize {
		return ErrRAMBounds
	}
	return d.bus.ReadRegister(d.addr, regRAM+offset, buf)
}

// WriteRAM stores data into the battery-backed RAM starting at offset. The write is a single bus transaction; if it
// fails partway the trailing bytes on the chip are undefined.
func (d *Device) WriteRAM(offset uint8, data []byte) error {
	if d.bus == nil {
		return ErrMissingBus
	}
	if int(offset)+len(data) > RAMSize {
		return ErrRAMBounds
	}
	return d.bus.WriteRegister(d.addr, regRAM+offset, data)
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	if d.bus == nil {
		return 0, ErrMissingBus
	}
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.addr, reg, buf[:])
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// setReg merges value into the register bits selected by mask, leaving the rest alone. The write is skipped entirely
// when the register already matches, so a no-op Set costs one bus read and no write.
func (d *Device) setReg(reg, mask, value uint8) error {
	origin, err := d.readReg(reg)
	if err != nil {
		return err
	}
	if origin&mask == value {
		return nil
	}
	buf := [1]byte{(origin &^ mask) | value}
	return d.bus.WriteRegister(d.addr, reg, buf[:])
}

// to12Hour encodes an hour in 0-23 as the chip's 12-hour hours register: BCD 1-12 with the mode and PM flags applied.
func to12Hour(hour uint8) uint8 {
	var pm uint8
	if hour >= 12 {
		hour -= 12
		pm = hoursPM
	}
	if hour == 0 {
		hour = 12 // 00:xx = 12:xx AM, 12:xx = 12:xx PM
	}
	return (decToBcd(int(hour)) & hours12Mask) | hours12 | pm
}

// from12Hour decodes the chip's 12-hour hours register back to 0-23.
func from12Hour(hour uint8) uint8 {
	h := uint8(bcdToDec(hour & hours12Mask))
	if h == 12 {
		h = 0 // 12:xx AM = 00:xx, 12:xx PM = 12:xx
	}
	if hour&hoursPM != 0 {
		h += 12
	}
	return h
}

// decToBcd converts int to BCD
func decToBcd(dec int) uint8 {
	return uint8(dec + 6*(dec/10))
}

// bcdToDec converts BCD to int
func bcdToDec(bcd uint8) int {
	return int(bcd - 6*(bcd>>4))
}
