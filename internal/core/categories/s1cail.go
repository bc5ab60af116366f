package categories

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/filety/internal/core"
	"github.com/JonMunkholm/filety/internal/frame"
)

// GroupNAV groups the delimited fund administration reports.
const GroupNAV = "NAV"

func init() {
	registerS1cail()
}

// s1cailDate is the date layout of the NAV report.
var s1cailDate = core.CalendarDate{Format: "%Y%m%d"}

func registerS1cail() {
	core.Register(core.Category{
		Name:  "S1cail",
		Group: GroupNAV,
		Label: "NAV report",
		Columns: []core.ColumnSpec{
			{Name: "nav date", Type: s1cailDate},
			{Name: "share code", Type: core.BoundedText{MaxLength: 32}},
			{Name: "ta share type", Type: core.BoundedText{MaxLength: 32}},
			{Name: "share currency", Type: core.BoundedText{MaxLength: 16}},
			{Name: "number of shares", Type: core.FloatingNumber{}},
			{Name: "share price", Type: core.FloatingNumber{}},
			{Name: "total redemption in share", Type: core.FloatingNumber{}},
			{Name: "total subscription in share", Type: core.FloatingNumber{}},
			{Name: "total redemption in amount", Type: core.FloatingNumber{}},
			{Name: "total subscription in amount", Type: core.FloatingNumber{}},
			{Name: "next nav date", Type: s1cailDate},
			{Name: "previous nav date", Type: s1cailDate},
			{Name: "net asset value", Type: core.FloatingNumber{}},
			{Name: "weight of share", Type: core.FloatingNumber{}},
			{Name: "exchange rate with official ccy", Type: core.FloatingNumber{}},
			{Name: "official nav", Type: core.Categorical{
				Allowed:    []string{"Y", "N"},
				Normalizer: NormalizeFlag,
			}},
			{Name: "isin qs code", Type: core.BoundedText{MaxLength: 12}},
		},
		NaturalKey: []string{"isin qs code"},
		SplitBy:    []string{"nav date"},
		Read:       readS1cail,
		PreCheck:   checkSingleNavDate,
		Transform:  keepOfficialNav,
	})
}

func readS1cail(data []byte) (frame.Frame, error) {
	return core.ReadDelimitedBytes(data, core.DelimitedOptions{
		Comma:        '|',
		LowerHeaders: true,
	})
}

func official(f frame.Frame, r int) bool {
	return f.Cell(r, "official nav").Str() == "Y"
}

// checkSingleNavDate warns when the official rows span more than one NAV
// date. The report is expected to cover a single valuation day.
func checkSingleNavDate(f frame.Frame, notes *core.Notes) error {
	seen := make(map[string]bool)
	for r := 0; r < f.Len(); r++ {
		if official(f, r) {
			seen[f.Cell(r, "nav date").String()] = true
		}
	}
	if len(seen) <= 1 {
		return nil
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	notes.Warnf("the table contains more than one \"nav date\"; found with \"official nav\" = \"Y\": %s", strings.Join(dates, ", "))
	return nil
}

// keepOfficialNav drops non-official rows and normalizes currency codes.
func keepOfficialNav(f frame.Frame, _ *core.Notes) (frame.Frame, error) {
	f = f.Filter(func(r int) bool { return official(f, r) })
	return f.Map("share currency", func(c frame.Cell) frame.Cell {
		if c.IsNull() {
			return c
		}
		return frame.Text(NormalizeCurrency(c.Str()))
	})
}
