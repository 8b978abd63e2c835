package ledger

import (
	"regexp"
	"time"
)

// Source tokens follow <prefix>_<start>_<end>_<suffix> with YYYY-MM-DD
// dates, e.g. mlb_raw_2024-04-01_2024-04-07_20240408_120000.json.
var tokenRangeRegex = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})_(\d{4}-\d{2}-\d{2})_`)

// ParseToken extracts the declared date range from a source token. The
// second return is false for tokens that do not follow the convention;
// those units bypass overlap checking.
func ParseToken(token string) (Range, bool) {
	match := tokenRangeRegex.FindStringSubmatch(token)
	if match == nil {
		return Range{}, false
	}

	start, err := time.Parse(DateLayout, match[1])
	if err != nil {
		return Range{}, false
	}
	end, err := time.Parse(DateLayout, match[2])
	if err != nil {
		return Range{}, false
	}
	if start.After(end) {
		return Range{}, false
	}

	return Range{Start: start, End: end}, true
}
