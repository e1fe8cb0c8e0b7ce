package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ScopeDate is either a scheduled calendar date or an unscheduled placeholder
// such as "Soon to be published". Its zero value means the date was omitted.
type ScopeDate struct {
	at      time.Time
	note    string
	invalid string
}

func Scheduled(t time.Time) ScopeDate {
	return ScopeDate{at: t.UTC()}
}

func Unscheduled(note string) ScopeDate {
	return ScopeDate{note: note}
}

// ParseScopeDate accepts YYYY-MM-DD or RFC3339.
func ParseScopeDate(s string) (ScopeDate, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Scheduled(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Scheduled(t), nil
	}
	return ScopeDate{}, fmt.Errorf("invalid date %q", s)
}

func MustParseScopeDate(s string) ScopeDate {
	d, err := ParseScopeDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d ScopeDate) IsZero() bool {
	return d.at.IsZero() && d.note == "" && d.invalid == ""
}

func (d ScopeDate) IsScheduled() bool {
	return !d.at.IsZero()
}

func (d ScopeDate) IsValid() bool {
	return d.invalid == ""
}

// Time returns the scheduled date; ok is false for unscheduled or missing dates.
func (d ScopeDate) Time() (t time.Time, ok bool) {
	return d.at, !d.at.IsZero()
}

func (d ScopeDate) Note() string {
	return d.note
}

func (d ScopeDate) String() string {
	switch {
	case d.IsScheduled():
		return d.format()
	case d.note != "":
		return d.note
	case d.invalid != "":
		return d.invalid
	}
	return ""
}

func (d ScopeDate) format() string {
	if d.at.Hour() == 0 && d.at.Minute() == 0 && d.at.Second() == 0 && d.at.Nanosecond() == 0 {
		return d.at.Format(dateLayout)
	}
	return d.at.Format(time.RFC3339)
}

type unscheduledJSON struct {
	Unscheduled string `json:"unscheduled"`
}

func (d ScopeDate) MarshalJSON() ([]byte, error) {
	switch {
	case d.IsScheduled():
		return json.Marshal(d.format())
	case d.note != "":
		return json.Marshal(unscheduledJSON{Unscheduled: d.note})
	case d.invalid != "":
		return json.Marshal(d.invalid)
	}
	return []byte("null"), nil
}

// UnmarshalJSON never fails on an unparseable date string; the raw text is
// kept so validation can report the field instead of rejecting the body.
func (d *ScopeDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = ScopeDate{}

	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '{':
		var u unscheduledJSON
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		d.note = u.Unscheduled
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("scope date must be a string or {\"unscheduled\": ...}: %w", err)
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseScopeDate(s)
	if err != nil {
		d.invalid = s
		return nil
	}
	*d = parsed
	return nil
}

// Scope is the active date range of an event or project.
type Scope struct {
	StartDate ScopeDate `json:"startDate"`
	EndDate   ScopeDate `json:"endDate"`
}

// Validate requires both dates to be present, parseable and scheduled, with
// the end not before the start. prefix is the JSON path of the scope field.
func (s Scope) Validate(prefix string) []FieldError {
	var errs []FieldError
	check := func(name string, d ScopeDate) {
		field := prefix + "." + name
		switch {
		case d.IsZero():
			errs = append(errs, FieldError{Field: field, Message: "is required"})
		case !d.IsValid():
			errs = append(errs, FieldError{Field: field, Message: "must be a valid date"})
		case !d.IsScheduled():
			errs = append(errs, FieldError{Field: field, Message: "must be a scheduled date"})
		}
	}
	check("startDate", s.StartDate)
	check("endDate", s.EndDate)

	if len(errs) == 0 && s.EndDate.at.Before(s.StartDate.at) {
		errs = append(errs, FieldError{Field: prefix + ".endDate", Message: "must not be before startDate"})
	}
	return errs
}
