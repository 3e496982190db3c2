package transit

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/right-track/core/store"
)

// DefaultStaticRefreshInterval is how long a retrieved static feed is
// trusted before Refresh re-downloads it, grounded on the teacher's
// Manager.RefreshInterval default.
const DefaultStaticRefreshInterval = 12 * time.Hour

// ErrNoActiveFeed is returned when a URL has retrieved feeds on record
// but none of them covers the requested date.
var ErrNoActiveFeed = errors.New("transit: no active feed found")

// FeedMetadata tracks one retrieved static feed: when it was fetched,
// its content hash, and the service date range it's active for.
type FeedMetadata struct {
	URL         string
	SHA256      string
	RetrievedAt time.Time
	UpdatedAt   time.Time
	StartDate   string
	EndDate     string
	Timezone    string
}

// NewStoreFunc builds a fresh, empty backing store.Store (which must
// also implement store.Loader) for a newly retrieved feed. Every feed
// a Loader retrieves gets its own store instance, since ingesting two
// unrelated feeds into the same store risks the primary-key conflicts
// and id collisions that Schedule.Reload runs into when it re-ingests
// into one store.
type NewStoreFunc func() store.Store

// Loader manages a set of GTFS static feeds by URL: retrieving,
// hashing, and re-parsing on demand, and picking whichever retrieved
// feed is active for a requested service date. Grounded on the
// teacher's Manager (manager.go), adapted to this package's
// Schedule/store.Loader wiring instead of storage.Storage.
type Loader struct {
	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	newStore   NewStoreFunc
	opts       Options
	downloader Downloader
	log        *slog.Logger

	mu        sync.Mutex
	feeds     map[string][]*FeedMetadata
	schedules map[string]*Schedule // keyed by SHA256
}

// NewLoader returns a Loader with no feeds retrieved yet, fetching
// over plain HTTP with no response caching. Set Loader.downloader via
// WithDownloader for a cached variant (MemoryCache, FileCache).
func NewLoader(newStore NewStoreFunc, opts Options) *Loader {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		RefreshInterval: DefaultStaticRefreshInterval,
		FetchTimeout:    60 * time.Second,
		newStore:        newStore,
		opts:            opts,
		downloader:      HTTPDownloader{},
		log:             log.With("component", "transit.Loader"),
		feeds:           map[string][]*FeedMetadata{},
		schedules:       map[string]*Schedule{},
	}
}

// WithDownloader swaps in a different retrieval/caching strategy, e.g.
// NewMemoryCache(HTTPDownloader{}) to avoid re-fetching an unchanged
// feed on every LoadStatic call.
func (l *Loader) WithDownloader(d Downloader) *Loader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.downloader = d
	return l
}

// LoadStaticAsync returns the most recently retrieved Schedule for url
// that's active at when. If url has never been retrieved, it's fetched
// immediately and then evaluated the same way — "Async" only describes
// the teacher's original fire-and-forget variant; this port always
// retrieves synchronously on first sight of a URL, since there's no
// background worker in this package to hand the request off to.
func (l *Loader) LoadStaticAsync(ctx context.Context, url string, when time.Time) (*Schedule, error) {
	return l.LoadStatic(ctx, url, when)
}

// LoadStatic returns the Schedule for url active at when, retrieving
// url for the first time if needed. ErrNoActiveFeed is returned if
// every retrieved feed for url has a service date range that excludes
// when.
func (l *Loader) LoadStatic(ctx context.Context, url string, when time.Time) (*Schedule, error) {
	l.mu.Lock()
	feeds := append([]*FeedMetadata(nil), l.feeds[url]...)
	l.mu.Unlock()

	if len(feeds) == 0 {
		meta, err := l.refreshStatic(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("refreshing static: %w", err)
		}
		feeds = []*FeedMetadata{meta}
	}

	return l.mostRecentActive(feeds, when)
}

// Refresh re-downloads any tracked URL whose most recently retrieved
// feed is older than RefreshInterval.
func (l *Loader) Refresh(ctx context.Context) error {
	l.mu.Lock()
	urls := make([]string, 0, len(l.feeds))
	for url := range l.feeds {
		urls = append(urls, url)
	}
	l.mu.Unlock()

	for _, url := range urls {
		if err := l.refreshIfStale(ctx, url); err != nil {
			return fmt.Errorf("refreshing %s: %w", url, err)
		}
	}
	return nil
}

func (l *Loader) refreshIfStale(ctx context.Context, url string) error {
	l.mu.Lock()
	feeds := append([]*FeedMetadata(nil), l.feeds[url]...)
	l.mu.Unlock()

	sort.Slice(feeds, func(i, j int) bool {
		return feeds[j].RetrievedAt.Before(feeds[i].RetrievedAt)
	})
	if len(feeds) > 0 && !feeds[0].RetrievedAt.IsZero() &&
		feeds[0].RetrievedAt.Add(l.RefreshInterval).After(time.Now()) {
		return nil
	}

	_, err := l.refreshStatic(ctx, url)
	return err
}

// refreshStatic downloads url, hashes the body, and — unless this
// exact content is already tracked (under this URL or another), in
// which case the existing Schedule is reused — parses it into a fresh
// Schedule. Returns the metadata record either way.
func (l *Loader) refreshStatic(ctx context.Context, url string) (*FeedMetadata, error) {
	l.mu.Lock()
	downloader := l.downloader
	timeout := l.FetchTimeout
	l.mu.Unlock()

	body, err := downloader.Get(ctx, url, FetchOptions{Timeout: timeout, Cache: true, CacheTTL: l.RefreshInterval})
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(body))
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if sched, ok := l.schedules[hash]; ok {
		meta := &FeedMetadata{
			URL:         url,
			SHA256:      hash,
			RetrievedAt: now,
			UpdatedAt:   now,
		}
		meta.StartDate, meta.EndDate, meta.Timezone = l.dateRange(ctx, sched)
		l.feeds[url] = append(l.feeds[url], meta)
		l.log.Info("feed content already known under another url", "url", url, "sha256", hash)
		return meta, nil
	}

	st := l.newStore()
	sched, err := Load(ctx, st, l.opts, body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	meta := &FeedMetadata{URL: url, SHA256: hash, RetrievedAt: now, UpdatedAt: now}
	meta.StartDate, meta.EndDate, meta.Timezone = l.dateRange(ctx, sched)

	l.schedules[hash] = sched
	l.feeds[url] = append(l.feeds[url], meta)
	l.log.Info("retrieved new feed", "url", url, "sha256", hash)
	return meta, nil
}

func (l *Loader) dateRange(ctx context.Context, sched *Schedule) (start, end, timezone string) {
	about, err := sched.Layer.GetAbout(ctx)
	if err == nil {
		start, end = about.StartDate, about.EndDate
	}
	rows, err := sched.Store.Select(ctx, store.Agencies())
	if err == nil && len(rows) > 0 {
		timezone = rows[0].String("agency_timezone")
	}
	return start, end, timezone
}

func (l *Loader) mostRecentActive(feeds []*FeedMetadata, when time.Time) (*Schedule, error) {
	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].RetrievedAt.Before(feeds[j].RetrievedAt)
	})

	for i := len(feeds) - 1; i >= 0; i-- {
		ok, err := feedActive(feeds[i], when)
		if err != nil {
			return nil, fmt.Errorf("checking if feed is active: %w", err)
		}
		if !ok {
			continue
		}
		l.mu.Lock()
		sched := l.schedules[feeds[i].SHA256]
		l.mu.Unlock()
		return sched, nil
	}
	return nil, ErrNoActiveFeed
}

func feedActive(feed *FeedMetadata, when time.Time) (bool, error) {
	tz := time.UTC
	if feed.Timezone != "" {
		loc, err := time.LoadLocation(feed.Timezone)
		if err != nil {
			return false, fmt.Errorf("loading timezone: %w", err)
		}
		tz = loc
	}

	whenThere := when.In(tz)
	todayThere := time.Date(whenThere.Year(), whenThere.Month(), whenThere.Day(), 0, 0, 0, 0, tz).Format("20060102")

	if feed.StartDate != "" && feed.StartDate > todayThere {
		return false, nil
	}
	if feed.EndDate != "" && feed.EndDate < todayThere {
		return false, nil
	}
	return true, nil
}
