package apitime

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the timestamp format used by the existing API consumers
// ("Y-m-d H:i:s"). All reservation dates cross the wire in this form.
const Layout = "2006-01-02 15:04:05"

// Time wraps time.Time with the legacy wire format.
type Time struct {
	time.Time
}

func New(t time.Time) Time {
	return Time{Time: t}
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(Layout) + `"`), nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(Layout, s)
	if err != nil {
		return fmt.Errorf("invalid datetime %q, expected %q: %w", s, Layout, err)
	}
	t.Time = parsed
	return nil
}
