package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Workdays is the Mon–Fri set a daily template fires on.
var Workdays = NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

var dayNames = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// WeekdaySet is a sorted, duplicate-free set of weekdays. It is stored as a
// comma separated list of time.Weekday numbers ("1,3,5" for Mon, Wed, Fri).
type WeekdaySet []time.Weekday

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// ParseWeekdays accepts weekday numbers or short English names ("mon,wed").
func ParseWeekdays(raw string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday %d out of range 0-6", n)
			}
			s = s.With(time.Weekday(n))
			continue
		}
		found := false
		for wd, name := range dayNames {
			if strings.EqualFold(name, part) {
				s = s.With(wd)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return s, nil
}

func (s WeekdaySet) Contains(day time.Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// With returns a copy of the set including day.
func (s WeekdaySet) With(day time.Weekday) WeekdaySet {
	if s.Contains(day) {
		return s.clone()
	}
	out := append(s.clone(), day)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Without returns a copy of the set excluding day.
func (s WeekdaySet) Without(day time.Weekday) WeekdaySet {
	out := make(WeekdaySet, 0, len(s))
	for _, d := range s {
		if d != day {
			out = append(out, d)
		}
	}
	return out
}

func (s WeekdaySet) Empty() bool {
	return len(s) == 0
}

// OnlyWorkdays reports whether every day of the set is Mon–Fri.
func (s WeekdaySet) OnlyWorkdays() bool {
	for _, d := range s {
		if d < time.Monday || d > time.Friday {
			return false
		}
	}
	return true
}

// Names returns short day names in set order.
func (s WeekdaySet) Names() []string {
	names := make([]string, 0, len(s))
	for _, d := range s {
		names = append(names, dayNames[d])
	}
	return names
}

func (s WeekdaySet) String() string {
	parts := make([]string, 0, len(s))
	for _, d := range s {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func (s WeekdaySet) clone() WeekdaySet {
	out := make(WeekdaySet, len(s))
	copy(out, s)
	return out
}

// UnmarshalJSON accepts a list of weekday numbers 0 (Sunday) to 6 (Saturday).
// Duplicates collapse and the result is sorted.
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var raw []int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weekdays: %w", err)
	}
	if raw == nil {
		*s = nil
		return nil
	}
	days := make([]time.Weekday, 0, len(raw))
	for _, n := range raw {
		if n < 0 || n > 6 {
			return fmt.Errorf("weekday %d out of range 0-6", n)
		}
		days = append(days, time.Weekday(n))
	}
	*s = NewWeekdaySet(days...)
	if *s == nil {
		*s = WeekdaySet{}
	}
	return nil
}

// Value implements driver.Valuer.
func (s WeekdaySet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *WeekdaySet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan weekday set: unsupported type %T", src)
	}
	parsed, err := ParseWeekdays(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// GormDataType stores the set as a plain string column.
func (WeekdaySet) GormDataType() string {
	return "string"
}
