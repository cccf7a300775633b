// Package model holds the data types shared across pipeline stages:
// scraped pages, keywords, clusters and the job record that ties a
// single research request's lifecycle together.
package model

import "time"

// PageContent is one crawled page, already reduced to the structured
// fields the rest of the pipeline consumes. Produced by the extractor,
// read-only afterwards.
type PageContent struct {
	URL             string         `json:"url"`
	Title           string         `json:"title"`
	MetaDescription string         `json:"metaDescription"`
	Headings        map[int][]string `json:"headings"` // keyed by level 1..3
	Paragraphs      []string       `json:"paragraphs"`
	ListItems       []string       `json:"listItems"`
	AnchorTexts     []string       `json:"anchorTexts"`
	ImageAlts       []string       `json:"imageAlts"`
	Markdown        string         `json:"markdown,omitempty"`
	WordCount       int            `json:"wordCount"`
}

// ScrapeResult is the ordered output of a site crawl.
type ScrapeResult struct {
	Pages     []PageContent `json:"pages"`
	TotalWords int          `json:"totalWords"`
	Strategy  string        `json:"strategy"`
	ScrapedAt time.Time     `json:"scrapedAt"`
}

// Competition is a normalized competition bucket for a keyword.
type Competition string

const (
	CompetitionLow     Competition = "low"
	CompetitionMedium  Competition = "medium"
	CompetitionHigh    Competition = "high"
	CompetitionUnknown Competition = "unknown"
)

// Keyword is a single metrics-enriched keyword.
type Keyword struct {
	Text          string      `json:"text"`
	SearchVolume  int         `json:"searchVolume"`
	Competition   Competition `json:"competition"`
	CPCLow        float64     `json:"cpcLow"`
	CPCHigh       float64     `json:"cpcHigh"`
}

// Cluster groups related keywords under a pillar topic.
type Cluster struct {
	ID                 string    `json:"id"`
	PillarTopic        string    `json:"pillarTopic"`
	Keywords           []Keyword `json:"keywords"`
	TotalSearchVolume  int       `json:"totalSearchVolume"`
	AvgSearchVolume    float64   `json:"avgSearchVolume"`
	AvgCompetition     Competition `json:"avgCompetition"`
	RelevanceScore     float64   `json:"relevanceScore"`
	ClusterValueScore  float64   `json:"clusterValueScore"`
	Algorithm          string    `json:"algorithm"`
	AIDescription      string    `json:"aiDescription,omitempty"`
	AIContentStrategy  string    `json:"aiContentStrategy,omitempty"`
	AIPriority         bool      `json:"aiPriority,omitempty"`
	Rank               int       `json:"rank"`
}

// Status is the lifecycle state of a Job. Transitions are monotonic:
// processing -> {completed|failed|cancelled}.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Options is the fixed, enumerated set of per-job knobs accepted on
// job creation.
type Options struct {
	MaxPages        int    `json:"maxPages"`
	FollowLinks     bool   `json:"followLinks"`
	ScrapeStrategy  string `json:"scrapeStrategy"`  // auto|browser|http
	ClusterAlgorithm string `json:"clusterAlgorithm"` // kmeans|dbscan|semantic|hybrid
	MinClusterSize  int    `json:"minClusterSize"`
	UseAI           bool   `json:"useAI"`
}

// ResultData is the job's final payload once completed.
type ResultData struct {
	Clusters []Cluster `json:"clusters"`
}

// Job is a single research request's state, owned exclusively by the
// JobStore. Stage-internal collaborators only ever see a *Job through
// the Orchestrator while it is running.
type Job struct {
	ID                string     `json:"id"`
	URL               string     `json:"url"`
	Country           string     `json:"country"`
	RequestedLanguage string     `json:"requestedLanguage,omitempty"`
	ResolvedLanguage  string     `json:"resolvedLanguage"`
	Options           Options    `json:"options"`
	Status            Status     `json:"status"`
	Progress          int        `json:"progress"`
	Step              string     `json:"step"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	FailedAt          *time.Time `json:"failedAt,omitempty"`
	Error             string     `json:"error,omitempty"`
	Warnings          []string   `json:"warnings,omitempty"`
	Data              *ResultData `json:"data,omitempty"`
	ProcessingTimeMs  int64      `json:"processingTimeMs,omitempty"`

	// InternalMetadata never leaves the process via the public API. The
	// JobStore initializes it empty; no pipeline stage or endpoint
	// writes or reads it.
	InternalMetadata map[string]any `json:"-"`

	// cancelRequested is set by JobStore.Cancel (via RequestCancel) and
	// checked by the Orchestrator at stage boundaries. Not serialized.
	cancelRequested bool
}

// CancelRequested reports whether deletion requested cancellation of
// a still-processing job.
func (j *Job) CancelRequested() bool { return j.cancelRequested }

// RequestCancel marks the job for best-effort cancellation. Callers
// must hold the JobStore's write lock.
func (j *Job) RequestCancel() { j.cancelRequested = true }
