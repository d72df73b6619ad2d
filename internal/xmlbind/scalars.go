package xmlbind

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LangString is a single language-tagged string: {language?, value}.
// Per spec 4.3 it may arrive as an object {language,value}, as
// {@language,#text}, as a bare text node, or as an empty-key text node —
// in XML form all four collapse to "an element with an optional lang
// attribute and text content", which is what ParseLangString extracts.
type LangString struct {
	Lang  string
	Value string
}

// TextType is an ordered sequence of LangString, spec's representation
// for elements that may repeat per language (titles, descriptions).
type TextType []LangString

// ParseLangString extracts a LangString from an element. The language
// attribute is looked up as "lang", "language", or "xml:lang" (checked in
// that order), case-insensitively, matching the variants real manifests
// use across SCORM/cmi5/xAPI. A missing language attribute is not an
// error — it stays "".
func ParseLangString(n *Node) LangString {
	if n == nil {
		return LangString{}
	}
	lang, _ := n.Attr("lang")
	if lang == "" {
		lang, _ = n.Attr("language")
	}
	if lang == "" {
		lang, _ = n.Attr("xml:lang")
	}
	return LangString{Lang: lang, Value: n.TrimText()}
}

// ParseTextType collects every LangString for a repeatable field. It
// supports both shapes spec 4.3 calls out: a wrapper element containing
// repeated "string"/"langstring" children, or the repeated elements
// appearing directly (unwrapped) under the parent with the field's own
// name. Callers pass every Node they found for the field name (wrapped or
// not) and this flattens them into document order.
func ParseTextType(nodes []*Node) TextType {
	var out TextType
	for _, n := range nodes {
		if n == nil {
			continue
		}
		// Wrapper shape: <description><string lang="en">...</string></description>
		wrapped := append(n.AllChildren("string"), n.AllChildren("langstring")...)
		if len(wrapped) > 0 {
			for _, w := range wrapped {
				out = append(out, ParseLangString(w))
			}
			continue
		}
		// Unwrapped shape: the node itself carries the text directly.
		out = append(out, ParseLangString(n))
	}
	return out
}

// First returns the first entry's value, or "" if empty — used by the
// metadata projector's title/description fallback chain.
func (t TextType) First() string {
	if len(t) == 0 {
		return ""
	}
	return t[0].Value
}

// YesNoType is AICC/SCORM 1.2's {yes,no} enumeration.
type YesNoType bool

func ParseYesNo(s string) YesNoType {
	return strings.EqualFold(strings.TrimSpace(s), "yes") || strings.EqualFold(strings.TrimSpace(s), "true")
}

// Instant is an ISO 8601 date-time. An empty string maps to the Unix
// epoch per spec 4.3 rather than failing, since many AICC/SCORM 1.2
// packages leave timestamp fields blank.
type Instant struct {
	Time time.Time
	Zero bool // true if the source string was empty (mapped to epoch)
}

var EpochInstant = Instant{Time: time.Unix(0, 0).UTC(), Zero: true}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func ParseInstant(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EpochInstant, nil
	}
	var lastErr error
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Instant{Time: t}, nil
		} else {
			lastErr = err
		}
	}
	return Instant{}, fmt.Errorf("invalid ISO 8601 instant %q: %w", s, lastErr)
}

// Duration represents either an ISO 8601 period (SCORM 2004/cmi5) or the
// HH:MM:SS[.fff] / bare-seconds form AICC and SCORM 1.2 use. Both forms
// normalize into the same component fields so callers never need to know
// which syntax the source package used.
type Duration struct {
	Raw                                string
	Years, Months, Days                float64
	Hours, Minutes, Seconds            float64
}

// AsGoDuration approximates the period as a time.Duration, treating a
// year as 365 days and a month as 30 days — adequate for display and
// comparison, not for calendar-accurate arithmetic.
func (d Duration) AsGoDuration() time.Duration {
	days := d.Years*365 + d.Months*30 + d.Days
	total := days*24*float64(time.Hour) +
		d.Hours*float64(time.Hour) +
		d.Minutes*float64(time.Minute) +
		d.Seconds*float64(time.Second)
	return time.Duration(total)
}

var isoPeriodRE = regexp.MustCompile(`^P(?:(\d+(?:\.\d+)?)Y)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)D)?` +
	`(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration parses an ISO 8601 "P…" period, the form SCORM
// 2004/cmi5 manifests use for maxTimeAllowed-style fields.
func ParseISODuration(s string) (Duration, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Duration{Raw: raw}, nil
	}
	m := isoPeriodRE.FindStringSubmatch(raw)
	if m == nil || raw == "P" {
		return Duration{}, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}
	parseOr0 := func(s string) float64 {
		if s == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	return Duration{
		Raw:     raw,
		Years:   parseOr0(m[1]),
		Months:  parseOr0(m[2]),
		Days:    parseOr0(m[3]),
		Hours:   parseOr0(m[4]),
		Minutes: parseOr0(m[5]),
		Seconds: parseOr0(m[6]),
	}, nil
}

var hmsRE = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{1,2}(?:[.,]\d+)?))?$`)

// ParseHMSDuration parses the AICC/SCORM 1.2 HH:MM:SS[.fff|,fff] form, or
// a bare number which spec 4.3 defines as a count of seconds.
func ParseHMSDuration(s string) (Duration, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Duration{Raw: raw}, nil
	}
	if m := hmsRE.FindStringSubmatch(raw); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		minutes, _ := strconv.ParseFloat(m[2], 64)
		seconds := 0.0
		if m[3] != "" {
			seconds, _ = strconv.ParseFloat(strings.Replace(m[3], ",", ".", 1), 64)
		}
		return Duration{Raw: raw, Hours: hours, Minutes: minutes, Seconds: seconds}, nil
	}
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return Duration{Raw: raw, Seconds: seconds}, nil
	}
	return Duration{}, fmt.Errorf("invalid AICC/SCORM 1.2 duration %q", s)
}

// PercentType is a decimal in [0,1].
type PercentType float64

func ParsePercent(s string) (PercentType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percent value %q: %w", s, err)
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("percent value %v out of range [0,1]", f)
	}
	return PercentType(f), nil
}

// MeasureType is a decimal in [-1,1], normalized to at least 4 fractional
// digits per spec 3.
type MeasureType float64

func ParseMeasure(s string) (MeasureType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid measure value %q: %w", s, err)
	}
	if f < -1 || f > 1 {
		return 0, fmt.Errorf("measure value %v out of range [-1,1]", f)
	}
	return MeasureType(roundTo(f, 4)), nil
}

func roundTo(f float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(f*mult) / mult
}

// String renders the measure with at least 4 fractional digits, the
// minimum precision spec 3 requires for round-trip stability.
func (m MeasureType) String() string {
	return strconv.FormatFloat(float64(m), 'f', 4, 64)
}
