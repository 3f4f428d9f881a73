package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/testudo-plus/schedule-api/internal/models"
	"github.com/testudo-plus/schedule-api/pkg/config"
)

const maxEventsPerFetch = 20

// EventsClient scrapes the campus events calendar. The markup is not a
// stable API, so parsing is tolerant: entries it cannot make sense of are
// skipped, never fatal.
type EventsClient struct {
	feedURL string
	http    *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

func NewEventsClient(cfg config.EventsConfig, logger *zap.Logger) *EventsClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsClient{
		feedURL: cfg.FeedURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		now:     time.Now,
	}
}

// UpcomingEvents fetches and parses the feed, keeping events that either
// carry no usable date or fall within the next daysAhead days.
func (c *EventsClient) UpcomingEvents(ctx context.Context, daysAhead int) ([]models.CampusEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", c.feedURL, resp.StatusCode)
	}
	return parseEvents(resp.Body, c.now(), daysAhead)
}

func parseEvents(r io.Reader, now time.Time, daysAhead int) ([]models.CampusEvent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	if daysAhead <= 0 {
		daysAhead = 14
	}
	horizon := now.AddDate(0, 0, daysAhead)

	var events []models.CampusEvent
	doc.Find("div.listItemWrapper, div[class*='event'], article[class*='event'], li[class*='event']").
		EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			title := text(sel.Find("h3, h4").First())
			if title == "" {
				title = text(sel.Find("a[class*='title'], span[class*='title']").First())
			}
			if title == "" {
				return true
			}

			ev := models.CampusEvent{Title: title}
			ev.StartsAt = parseEventTime(sel.Find("time").First())
			ev.Location = text(sel.Find("span[class*='location'], div[class*='location']").First())
			ev.Description = text(sel.Find("p").First())
			if href, ok := sel.Find("a").First().Attr("href"); ok {
				ev.URL = href
			}

			if !ev.StartsAt.IsZero() && (ev.StartsAt.Before(now) || ev.StartsAt.After(horizon)) {
				return true
			}
			events = append(events, ev)
			return len(events) < maxEventsPerFetch
		})
	return events, nil
}

var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006",
}

func parseEventTime(sel *goquery.Selection) time.Time {
	raw := strings.TrimSpace(sel.AttrOr("datetime", ""))
	if raw == "" {
		raw = text(sel)
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
