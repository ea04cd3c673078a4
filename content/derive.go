package content

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// WordsPerMinute is the reading speed used to derive BlogPost.ReadTime.
const WordsPerMinute = 200

// ReadTime returns "<n> min read" for content, rounding up with a minimum of
// one minute.
func ReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// CalculateExperience returns the whole years and remaining months between
// workStartDate (YYYY-MM) and now. ok is false when the date does not parse.
func CalculateExperience(workStartDate string, now time.Time) (Experience, bool) {
	start, err := time.Parse("2006-01", strings.TrimSpace(workStartDate))
	if err != nil {
		return Experience{}, false
	}
	total := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if total < 0 {
		total = 0
	}
	exp := Experience{Years: total / 12, Months: total % 12}
	exp.Label = fmt.Sprintf("%d.%d", exp.Years, exp.Months)
	return exp, true
}

// FeaturedPost returns the first post that is both featured and published.
func FeaturedPost(posts []BlogPost) (BlogPost, bool) {
	for _, p := range posts {
		if p.Featured && p.Published {
			return p, true
		}
	}
	return BlogPost{}, false
}

// SortPostsByPublishDate orders posts newest first. Posts sharing a date keep
// creation order, newest first.
func SortPostsByPublishDate(posts []BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].PublishDate != posts[j].PublishDate {
			return posts[i].PublishDate > posts[j].PublishDate
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// SortEpisodesByPublishDate orders episodes newest first.
func SortEpisodesByPublishDate(episodes []Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].PublishDate != episodes[j].PublishDate {
			return episodes[i].PublishDate > episodes[j].PublishDate
		}
		return episodes[i].CreatedAt.After(episodes[j].CreatedAt)
	})
}
