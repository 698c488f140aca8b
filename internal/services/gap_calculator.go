package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"alfredoptarigan/resume-extractor/internal/models"
)

// MinGapMonths is the shortest interval reported as an employment gap.
const MinGapMonths = 6

// YearMonth is a calendar month. All gap arithmetic is done at month granularity.
type YearMonth struct {
	Year  int
	Month time.Month
}

func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

func (ym YearMonth) Before(other YearMonth) bool {
	return ym.index() < other.index()
}

// MonthsBetween returns to - from in months. Negative when to precedes from.
func MonthsBetween(from, to YearMonth) int {
	return to.index() - from.index()
}

var yearMonthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006/01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"Jan, 2006",
	"January, 2006",
}

// septPrefix matches the four-letter "Sept" abbreviation, which time.Parse
// does not accept.
var septPrefix = regexp.MustCompile(`(?i)^sept\b`)

var presentMarkers = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
}

// ParseYearMonth parses a resume date. "present", "current" and "now" resolve
// to the month of now. The boolean is false for empty or unrecognised input.
func ParseYearMonth(raw string, now time.Time) (YearMonth, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return YearMonth{}, false
	}

	if presentMarkers[strings.ToLower(s)] {
		return YearMonthOf(now), true
	}

	s = septPrefix.ReplaceAllString(s, "Sep")

	for _, layout := range yearMonthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return YearMonthOf(t), true
		}
	}

	return YearMonth{}, false
}

type datedPeriod struct {
	start, end       YearMonth
	hasStart, hasEnd bool
}

// sortWorkPeriods parses the dates of every period and orders them by start
// ascending. Periods without a parsable start keep their relative order at the end.
func sortWorkPeriods(workPeriods []models.WorkPeriod, now time.Time) []datedPeriod {
	periods := make([]datedPeriod, len(workPeriods))
	for i, wp := range workPeriods {
		p := datedPeriod{}
		p.start, p.hasStart = ParseYearMonth(wp.StartDate, now)
		p.end, p.hasEnd = ParseYearMonth(wp.EndDate, now)
		periods[i] = p
	}

	sort.SliceStable(periods, func(i, j int) bool {
		a, b := periods[i], periods[j]
		switch {
		case a.hasStart && b.hasStart:
			return a.start.Before(b.start)
		case a.hasStart:
			return true
		default:
			return false
		}
	})

	return periods
}

// latestGraduation returns the most recent end of education. A record with
// only a graduation year is treated as ending in June of that year.
func latestGraduation(education []models.EducationRecord, now time.Time) (YearMonth, bool) {
	var latest YearMonth
	found := false

	for _, edu := range education {
		end, ok := ParseYearMonth(edu.EndDate, now)
		if !ok && edu.GraduationYear > 0 {
			end, ok = YearMonth{Year: edu.GraduationYear, Month: time.June}, true
		}
		if !ok {
			continue
		}
		if !found || latest.Before(end) {
			latest = end
			found = true
		}
	}

	return latest, found
}

// ComputeEmploymentGaps finds post-college and between-job gaps of at least
// MinGapMonths, using the current month for open-ended periods.
func ComputeEmploymentGaps(workPeriods []models.WorkPeriod, education []models.EducationRecord) models.GapSummary {
	return ComputeEmploymentGapsAt(time.Now(), workPeriods, education)
}

// ComputeEmploymentGapsAt is ComputeEmploymentGaps with an explicit clock.
func ComputeEmploymentGapsAt(now time.Time, workPeriods []models.WorkPeriod, education []models.EducationRecord) models.GapSummary {
	summary := models.GapSummary{GapDetails: []models.Gap{}}
	periods := sortWorkPeriods(workPeriods, now)

	if len(education) > 0 && len(periods) > 0 && periods[0].hasStart {
		if graduated, ok := latestGraduation(education, now); ok {
			if months := MonthsBetween(graduated, periods[0].start); months >= MinGapMonths {
				summary.GapDetails = append(summary.GapDetails, models.Gap{
					Type:           models.GapPostCollege,
					Start:          graduated.String(),
					End:            periods[0].start.String(),
					DurationMonths: months,
				})
			}
		}
	}

	for i := 0; i+1 < len(periods); i++ {
		prev, next := periods[i], periods[i+1]
		if !prev.hasEnd || !next.hasStart {
			continue
		}
		if months := MonthsBetween(prev.end, next.start); months >= MinGapMonths {
			summary.GapDetails = append(summary.GapDetails, models.Gap{
				Type:           models.GapBetweenJobs,
				Start:          prev.end.String(),
				End:            next.start.String(),
				DurationMonths: months,
			})
		}
	}

	for _, gap := range summary.GapDetails {
		summary.TotalGapMonths += gap.DurationMonths
	}
	summary.HasGap = summary.TotalGapMonths > 0

	return summary
}

// TotalExperienceMonths sums the length of every period with both dates.
// Overlapping jobs are counted twice.
func TotalExperienceMonths(workPeriods []models.WorkPeriod, now time.Time) int {
	total := 0
	for _, p := range sortWorkPeriods(workPeriods, now) {
		if !p.hasStart || !p.hasEnd {
			continue
		}
		if months := MonthsBetween(p.start, p.end); months > 0 {
			total += months
		}
	}
	return total
}
