// Package analytics computes aggregate statistics over collected messages.
// All functions are pure; callers fetch the rows and pass them in.
package analytics

import (
	"fmt"
	"time"

	"feedbacknexus/internal/models"
)

// NoData is returned by summary functions when there is nothing to
// summarize.
const NoData = "No data"

// DailyCount is one day's message count in a daily series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// HourlySeries buckets messages into 24 local-time hour slots.
func HourlySeries(messages []models.Message) [24]int {
	var buckets [24]int
	for _, m := range messages {
		buckets[m.CreatedAt.Local().Hour()]++
	}
	return buckets
}

// MostActiveHour returns the hour with the most messages formatted as
// "15:00". Ties resolve to the earliest hour.
func MostActiveHour(messages []models.Message) string {
	if len(messages) == 0 {
		return NoData
	}
	buckets := HourlySeries(messages)
	best := 0
	for h := 1; h < len(buckets); h++ {
		if buckets[h] > buckets[best] {
			best = h
		}
	}
	return fmt.Sprintf("%d:00", best)
}

// MostCommonPage returns the title of the page that received the most
// messages. Ties resolve to the lexicographically smaller title. Messages
// referencing a page not in pages are ignored.
func MostCommonPage(messages []models.Message, pages []models.FeedbackPage) string {
	if len(messages) == 0 || len(pages) == 0 {
		return NoData
	}

	titles := make(map[uint]string, len(pages))
	for _, p := range pages {
		titles[p.ID] = p.Title
	}

	counts := make(map[uint]int, len(pages))
	for _, m := range messages {
		if _, ok := titles[m.FeedbackPageID]; ok {
			counts[m.FeedbackPageID]++
		}
	}

	bestTitle := ""
	bestCount := 0
	for pageID, count := range counts {
		title := titles[pageID]
		if count > bestCount || (count == bestCount && (bestTitle == "" || title < bestTitle)) {
			bestTitle = title
			bestCount = count
		}
	}
	if bestCount == 0 {
		return NoData
	}
	return bestTitle
}

// DailySeries returns per-day message counts for the trailing window ending
// at now, oldest day first. Days with no messages appear with a zero count.
func DailySeries(messages []models.Message, days int, now time.Time) []DailyCount {
	if days <= 0 {
		return nil
	}

	now = now.Local()
	series := make([]DailyCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		key := day.Format("2006-01-02")
		series[i] = DailyCount{Date: key}
		index[key] = i
	}

	for _, m := range messages {
		key := m.CreatedAt.Local().Format("2006-01-02")
		if i, ok := index[key]; ok {
			series[i].Count++
		}
	}
	return series
}
