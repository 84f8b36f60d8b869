package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UpdateStamp is the server-assigned ordering timestamp used by the
// staleness policy. Comparisons go through explicit methods so the policy
// never leans on ambient wall-clock state and stays testable with
// synthetic clocks.
type UpdateStamp struct {
	t time.Time
}

func NewUpdateStamp(t time.Time) UpdateStamp {
	return UpdateStamp{t: t.UTC()}
}

func (s UpdateStamp) Time() time.Time { return s.t }
func (s UpdateStamp) IsZero() bool    { return s.t.IsZero() }

// Before reports a strictly older stamp. Equal stamps are not "before":
// an incoming update with the same stamp as the stored one is accepted.
func (s UpdateStamp) Before(other UpdateStamp) bool {
	return s.t.Before(other.t)
}

func (s UpdateStamp) AtOrAfter(other UpdateStamp) bool {
	return !s.t.Before(other.t)
}

func (s UpdateStamp) String() string {
	return s.t.Format(time.RFC3339Nano)
}

func (s UpdateStamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.t.Format(time.RFC3339Nano))), nil
}

// UnmarshalJSON accepts either an RFC3339 string or a unix-milliseconds
// number; backends of both flavors exist.
func (s *UpdateStamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*s = UpdateStamp{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid update stamp %s: %w", raw, err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, unquoted)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, unquoted)
		}
		if err != nil {
			return fmt.Errorf("invalid update stamp %q: %w", unquoted, err)
		}
		*s = NewUpdateStamp(parsed)
		return nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid update stamp %s: %w", raw, err)
	}
	*s = NewUpdateStamp(time.UnixMilli(millis))
	return nil
}
