// Package leaderboard converts private leaderboards into tables of solve times.
package leaderboard

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jakzo/aoc/src/calendar"
)

// maxElapsed is the longest solve time reported; anything slower is shown as this.
const maxElapsed = 24*time.Hour - time.Millisecond

// A Leaderboard is the JSON representation of a private leaderboard.
type Leaderboard struct {
	Event   string             `json:"event"`
	OwnerID int                `json:"owner_id"`
	Members map[string]*Member `json:"members"`
}

// A Member is one member of a private leaderboard.
type Member struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Stars      int    `json:"stars"`
	LocalScore int    `json:"local_score"`
	// CompletionDayLevel is keyed by day, then part.
	CompletionDayLevel map[string]map[string]Star `json:"completion_day_level"`
}

// A Star records when a member solved one part of a puzzle.
type Star struct {
	GetStarTs Timestamp `json:"get_star_ts"`
}

// A Timestamp is a Unix timestamp in seconds. Older leaderboards encode these as strings.
type Timestamp int64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	b = bytes.Trim(b, `"`)
	i, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", b, err)
	}
	*ts = Timestamp(i)
	return nil
}

// Time returns this timestamp as a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(int64(ts), 0).UTC()
}

// DisplayName returns the name to show for a member; anonymous users don't have one.
func (m *Member) DisplayName() string {
	if m.Name == "" {
		return fmt.Sprintf("(anonymous user #%d)", m.ID)
	}
	return m.Name
}

// Header returns the header row of the table.
func Header() []string {
	header := make([]string, 0, 1+2*calendar.Days)
	header = append(header, "Name")
	for day := 1; day <= calendar.Days; day++ {
		header = append(header, fmt.Sprintf("%02d - A", day), fmt.Sprintf("%02d - B", day))
	}
	return header
}

// CSV returns a table of how long each member took to solve each part of each day, measured
// from when the puzzle was released. Members are ordered by local score, highest first.
func CSV(lb *Leaderboard, year int) [][]string {
	members := make([]*Member, 0, len(lb.Members))
	for _, m := range lb.Members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].LocalScore != members[j].LocalScore {
			return members[i].LocalScore > members[j].LocalScore
		}
		return members[i].ID < members[j].ID
	})
	rows := [][]string{Header()}
	for _, m := range members {
		row := make([]string, 1+2*calendar.Days)
		row[0] = m.DisplayName()
		for dayStr, parts := range m.CompletionDayLevel {
			day, err := strconv.Atoi(dayStr)
			if err != nil || day < 1 || day > calendar.Days {
				continue
			}
			start := calendar.StartOf(year, day)
			for partStr, star := range parts {
				part, err := strconv.Atoi(partStr)
				if err != nil || part < 1 || part > 2 {
					continue
				}
				row[(day-1)*2+part] = FormatElapsed(star.GetStarTs.Time().Sub(start))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatElapsed formats a duration as HH:MM:SS.mmm, clamped to within a single day.
func FormatElapsed(d time.Duration) string {
	if d > maxElapsed {
		d = maxElapsed
	} else if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}
