package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout   = "2006-01-02"
	MicroLayout  = "2006-01-02T15:04:05.000000Z"
	SecondLayout = "2006-01-02T15:04:05Z"
	LocalLayout  = "2006-01-02T15:04:05"
)

func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// Parse is lenient: anything after a "T" is ignored and month and day may
// omit their leading zero.
func Parse(s string) (*time.Time, error) {
	if strings.Contains(s, "T") {
		s = s[:strings.Index(s, "T")]
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid year: %s", parts[0])
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %s", parts[1])
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid day: %s", parts[2])
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return nil, fmt.Errorf("invalid day: %s", parts[2])
	}

	return &t, nil
}

// ParseLenientDate reads a Date with the leniency of Parse.
func ParseLenientDate(s string) (Date, error) {
	t, err := Parse(s)
	if err != nil {
		return Date{}, err
	}
	return Date{*t}, nil
}

type Date struct{ time.Time }

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %s", s)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) { return quote(d.String()), nil }

func (d *Date) UnmarshalJSON(b []byte) error {
	return unmarshal(b, func(s string) error {
		v, err := ParseDate(s)
		*d = v
		return err
	})
}

// Micro is an instant sent with microsecond precision, like created_at.
type Micro struct{ time.Time }

// ParseMicro also accepts instants without a fractional part.
func ParseMicro(s string) (Micro, error) {
	if !strings.HasSuffix(s, "Z") {
		return Micro{}, fmt.Errorf("invalid timestamp: %s", s)
	}
	t, err := time.Parse(SecondLayout, s)
	if err != nil {
		return Micro{}, fmt.Errorf("invalid timestamp: %s", s)
	}
	return Micro{t.Truncate(time.Microsecond)}, nil
}

func (m Micro) String() string { return m.UTC().Format(MicroLayout) }

func (m Micro) MarshalJSON() ([]byte, error) { return quote(m.String()), nil }

func (m *Micro) UnmarshalJSON(b []byte) error {
	return unmarshal(b, func(s string) error {
		v, err := ParseMicro(s)
		*m = v
		return err
	})
}

// Second is an instant sent without fractional seconds, like payment_required_by.
type Second struct{ time.Time }

func ParseSecond(s string) (Second, error) {
	if len(s) != len(SecondLayout) {
		return Second{}, fmt.Errorf("invalid timestamp: %s", s)
	}
	t, err := time.Parse(SecondLayout, s)
	if err != nil {
		return Second{}, fmt.Errorf("invalid timestamp: %s", s)
	}
	return Second{t}, nil
}

func (s Second) String() string { return s.UTC().Format(SecondLayout) }

func (s Second) MarshalJSON() ([]byte, error) { return quote(s.String()), nil }

func (s *Second) UnmarshalJSON(b []byte) error {
	return unmarshal(b, func(raw string) error {
		v, err := ParseSecond(raw)
		*s = v
		return err
	})
}

// Local is a wall-clock time at an airport, without a zone.
type Local struct{ time.Time }

func ParseLocal(s string) (Local, error) {
	t, err := time.Parse(LocalLayout, s)
	if err != nil {
		return Local{}, fmt.Errorf("invalid local time: %s", s)
	}
	return Local{t}, nil
}

func (l Local) String() string { return l.Format(LocalLayout) }

func (l Local) MarshalJSON() ([]byte, error) { return quote(l.String()), nil }

func (l *Local) UnmarshalJSON(b []byte) error {
	return unmarshal(b, func(s string) error {
		v, err := ParseLocal(s)
		*l = v
		return err
	})
}

// Flexible is used by confirmed_at and expires_at, which the API sends
// either with or without microseconds.
type Flexible struct{ time.Time }

func ParseFlexible(s string) (Flexible, error) {
	if len(s) == len(SecondLayout) {
		v, err := ParseSecond(s)
		return Flexible{v.Time}, err
	}
	v, err := ParseMicro(s)
	return Flexible{v.Time}, err
}

func (f Flexible) String() string {
	if f.Nanosecond() == 0 {
		return f.UTC().Format(SecondLayout)
	}
	return f.UTC().Format(MicroLayout)
}

func (f Flexible) MarshalJSON() ([]byte, error) { return quote(f.String()), nil }

func (f *Flexible) UnmarshalJSON(b []byte) error {
	return unmarshal(b, func(s string) error {
		v, err := ParseFlexible(s)
		*f = v
		return err
	})
}

func quote(s string) []byte {
	return []byte(strconv.Quote(s))
}

func unmarshal(b []byte, parse func(string) error) error {
	if string(b) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("invalid timestamp: %s", b)
	}
	return parse(s)
}
