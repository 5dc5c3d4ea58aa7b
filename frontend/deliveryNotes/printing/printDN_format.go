package printing

import (
	"net/url"
	"strings"
	"time"
)

// DisplayDateLayout renders as e.g. "05 Jan 2024".
const DisplayDateLayout = "02 Jan 2006"

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDisplayDate turns a timestamp into the note's display form. The date
// is taken in the timestamp's own offset. Blank or unparsable input yields "".
func FormatDisplayDate(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return ""
}

// FormatDisplayDateP is FormatDisplayDate with absence as nil.
func FormatDisplayDateP(input string) *string {
	return text(FormatDisplayDate(input))
}

// formatDay formats a known time in loc.
func formatDay(t time.Time, loc *time.Location) *string {
	if loc == nil {
		loc = time.UTC
	}
	s := t.In(loc).Format(DisplayDateLayout)
	return &s
}

// text returns nil for blank strings.
func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// firstText returns the first non-blank value.
func firstText(values ...string) *string {
	for _, v := range values {
		if p := text(v); p != nil {
			return p
		}
	}
	return nil
}

// mapLink returns the first value that is an absolute http(s) URL. Anything
// else would end up as a clickable href on the surface and is treated as absent.
func mapLink(values ...string) *string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		u, err := url.Parse(v)
		if err != nil || u.Host == "" {
			continue
		}
		if scheme := strings.ToLower(u.Scheme); scheme == "http" || scheme == "https" {
			return &v
		}
	}
	return nil
}

func intPtr(n int) *int {
	return &n
}
