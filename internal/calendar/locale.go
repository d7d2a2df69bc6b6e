package calendar

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Regions whose calendars conventionally start the week on a day other than
// Monday. Everything else starts on Monday.
var regionFirstWeekday = map[string]time.Weekday{
	"AG": time.Sunday, "AS": time.Sunday, "BD": time.Sunday, "BR": time.Sunday,
	"BS": time.Sunday, "BT": time.Sunday, "BW": time.Sunday, "BZ": time.Sunday,
	"CA": time.Sunday, "CN": time.Sunday, "CO": time.Sunday, "DM": time.Sunday,
	"DO": time.Sunday, "ET": time.Sunday, "GT": time.Sunday, "GU": time.Sunday,
	"HK": time.Sunday, "HN": time.Sunday, "ID": time.Sunday, "IL": time.Sunday,
	"IN": time.Sunday, "JM": time.Sunday, "JP": time.Sunday, "KE": time.Sunday,
	"KH": time.Sunday, "KR": time.Sunday, "LA": time.Sunday, "MH": time.Sunday,
	"MM": time.Sunday, "MO": time.Sunday, "MT": time.Sunday, "MX": time.Sunday,
	"MZ": time.Sunday, "NI": time.Sunday, "NP": time.Sunday, "PA": time.Sunday,
	"PE": time.Sunday, "PH": time.Sunday, "PK": time.Sunday, "PR": time.Sunday,
	"PT": time.Sunday, "PY": time.Sunday, "SA": time.Sunday, "SG": time.Sunday,
	"SV": time.Sunday, "TH": time.Sunday, "TT": time.Sunday, "TW": time.Sunday,
	"UM": time.Sunday, "US": time.Sunday, "VE": time.Sunday, "VI": time.Sunday,
	"WS": time.Sunday, "YE": time.Sunday, "ZA": time.Sunday, "ZW": time.Sunday,
	"AE": time.Saturday, "AF": time.Saturday, "BH": time.Saturday, "DJ": time.Saturday,
	"DZ": time.Saturday, "EG": time.Saturday, "IQ": time.Saturday, "IR": time.Saturday,
	"JO": time.Saturday, "KW": time.Saturday, "LY": time.Saturday, "OM": time.Saturday,
	"QA": time.Saturday, "SD": time.Saturday, "SY": time.Saturday,
	"MV": time.Friday,
}

// RegionFirstWeekday returns the conventional first weekday of an ISO 3166
// region code. Unknown or empty regions start on Monday.
func RegionFirstWeekday(region string) time.Weekday {
	if wd, ok := regionFirstWeekday[strings.ToUpper(region)]; ok {
		return wd
	}
	return time.Monday
}

// SystemRegion returns the region of the process locale taken from
// LC_ALL, LC_TIME or LANG, or "" when none carries one.
func SystemRegion() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if region := LocaleRegion(os.Getenv(key)); region != "" {
			return region
		}
	}
	return ""
}

// LocaleRegion extracts the region from a POSIX locale ("ko_KR.UTF-8") or a
// BCP 47 tag ("en-US").
func LocaleRegion(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return ""
	}
	// a bare language ("de") only yields an inferred region
	region, confidence := tag.Region()
	if confidence != language.Exact {
		return ""
	}
	return region.String()
}
