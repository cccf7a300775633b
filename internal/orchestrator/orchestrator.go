// Package orchestrator drives a job through the fixed pipeline —
// scanning, extracting, enriching, clustering, finalizing — updating
// its JobStore record at every stage boundary. The stage dispatch
// mirrors the teacher's internal/jobs/runner.go: a stage-error type,
// unwrapped with errors.As, marks the job failed with a stable label
// instead of panicking, and per-stage errors never leave a job with
// partial data.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"keywordscope/internal/aienhancer"
	"keywordscope/internal/cluster"
	"keywordscope/internal/fetcher"
	"keywordscope/internal/jobstore"
	"keywordscope/internal/metrics"
	"keywordscope/internal/model"
	"keywordscope/internal/seedgen"
)

// stageKind is the error taxonomy from spec.md §7. Each maps to a
// fixed job-failure stage label.
type stageKind string

const (
	kindUnreachable  stageKind = "Unreachable"
	kindNoSeeds      stageKind = "NoSeeds"
	kindNoMetrics    stageKind = "NoMetrics"
	kindClusterEmpty stageKind = "ClusterEmpty"
	kindInternal     stageKind = "Internal"
)

// stageError pairs a taxonomy kind with the stage label recorded on
// the job and a human-readable message.
type stageError struct {
	kind    stageKind
	stage   string
	message string
}

func (e *stageError) Error() string { return e.message }

func fail(kind stageKind, stage, format string, args ...any) *stageError {
	return &stageError{kind: kind, stage: stage, message: fmt.Sprintf(format, args...)}
}

// Progress signposts — spec.md §4.9, monotonic non-decreasing.
const (
	progressValidating = 5
	progressScanning   = 10
	progressExtracting = 30
	progressEnriching  = 50
	progressClustering = 70
	progressFinalizing = 90
	progressCompleted  = 100
)

// scrapeRunner is the subset of scraper.Scraper the orchestrator
// depends on.
type scrapeRunner interface {
	Scrape(ctx context.Context, startURL string, maxPages int, strategy fetcher.Strategy, attempts int) (*model.ScrapeResult, error)
}

// prober performs the cheap pre-scrape reachability check.
type prober interface {
	Fetch(ctx context.Context, url string, strategy fetcher.Strategy, attempts int) (*fetcher.Result, error)
}

// metricsFetcher is the subset of keywordmetrics.Client the
// orchestrator depends on.
type metricsFetcher interface {
	Fetch(ctx context.Context, seeds []string, countryCode, languageCode string) ([]model.Keyword, error)
}

// Options configures pipeline-wide defaults not carried per-job.
type Options struct {
	FetchAttempts    int
	MaxSeedKeywords  int
	DefaultAlgorithm string
}

func (o Options) withDefaults() Options {
	if o.FetchAttempts < 1 {
		o.FetchAttempts = 3
	}
	if o.MaxSeedKeywords < 1 {
		o.MaxSeedKeywords = 150
	}
	if o.DefaultAlgorithm == "" {
		o.DefaultAlgorithm = cluster.AlgorithmHybrid
	}
	return o
}

// Orchestrator owns the stage collaborators and drives jobs stored in
// a jobstore.Store through the pipeline.
type Orchestrator struct {
	store    *jobstore.Store
	scraper  scrapeRunner
	prober   prober
	metrics  metricsFetcher
	enhancer *aienhancer.Enhancer
	log      *slog.Logger
	opts     Options
}

// New builds an Orchestrator. enhancer may be a disabled
// (zero-client) *aienhancer.Enhancer when AI is not configured.
func New(store *jobstore.Store, scraper scrapeRunner, prober prober, metrics metricsFetcher, enhancer *aienhancer.Enhancer, log *slog.Logger, opts Options) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		store:    store,
		scraper:  scraper,
		prober:   prober,
		metrics:  metrics,
		enhancer: enhancer,
		log:      log,
		opts:     opts.withDefaults(),
	}
}

// Run drives jobID through the full pipeline. Intended to be called
// as `go o.Run(ctx, jobID)` immediately after job creation; the HTTP
// handler that created the job has already returned its response.
func (o *Orchestrator) Run(ctx context.Context, jobID string) {
	start := time.Now()
	job, ok := o.store.Get(jobID)
	if !ok {
		o.log.Warn("orchestrator: job disappeared before pipeline start", "job_id", jobID)
		return
	}
	log := o.log.With("job_id", jobID, "url", job.URL)

	o.advance(jobID, progressValidating, "validating")
	log.Info("pipeline stage", "stage", "validating", "progress", progressValidating)

	if o.cancelled(jobID) {
		return
	}

	scrape, err := o.runScanning(ctx, jobID, job)
	if err != nil {
		o.failJob(jobID, err, log, start)
		return
	}

	if o.cancelled(jobID) {
		return
	}

	seeds, usedFallback, err := o.runExtracting(ctx, jobID, job, scrape)
	if err != nil {
		o.failJob(jobID, err, log, start)
		return
	}

	if o.cancelled(jobID) {
		return
	}

	keywords, err := o.runEnriching(ctx, jobID, job, seeds)
	if err != nil {
		o.failJob(jobID, err, log, start)
		return
	}

	if o.cancelled(jobID) {
		return
	}

	clusters, warnings, err := o.runClustering(ctx, jobID, job, scrape, keywords)
	if err != nil {
		o.failJob(jobID, err, log, start)
		return
	}
	if usedFallback {
		warnings = append(warnings, "AIUnavailable: used deterministic seed generation")
	}

	if o.cancelled(jobID) {
		return
	}

	o.finalize(jobID, clusters, warnings, start, log)
}

func (o *Orchestrator) advance(jobID string, progress int, step string) {
	o.store.Update(jobID, func(j *model.Job) {
		if progress > j.Progress {
			j.Progress = progress
		}
		j.Step = step
	})
}

func (o *Orchestrator) cancelled(jobID string) bool {
	job, ok := o.store.Get(jobID)
	return !ok || job.CancelRequested() || job.Status == model.StatusCancelled
}

func (o *Orchestrator) runScanning(ctx context.Context, jobID string, job model.Job) (*model.ScrapeResult, error) {
	o.advance(jobID, progressScanning, "scanning")

	strategy := fetcher.Strategy(job.Options.ScrapeStrategy)
	if strategy == "" {
		strategy = fetcher.StrategyAuto
	}

	if _, err := o.prober.Fetch(ctx, job.URL, fetcher.StrategyHTTP, 1); err != nil {
		return nil, fail(kindUnreachable, "scanning", "unreachable: %v", err)
	}

	maxPages := job.Options.MaxPages
	if maxPages < 1 {
		maxPages = 20
	}

	scrape, err := o.scraper.Scrape(ctx, job.URL, maxPages, strategy, o.opts.FetchAttempts)
	if err != nil || scrape == nil || len(scrape.Pages) == 0 {
		return nil, fail(kindUnreachable, "scanning", "scrape produced zero pages: %v", err)
	}
	return scrape, nil
}

func (o *Orchestrator) runExtracting(ctx context.Context, jobID string, job model.Job, scrape *model.ScrapeResult) ([]string, bool, error) {
	o.advance(jobID, progressExtracting, "extracting seeds")

	seeds, usedFallback, err := seedgen.Generate(ctx, o.enhancer, scrape, job.ResolvedLanguage, o.opts.MaxSeedKeywords)
	if err != nil {
		return nil, false, fail(kindInternal, "extracting", "seed generation: %v", err)
	}
	if len(seeds) == 0 {
		return nil, false, fail(kindNoSeeds, "extracting", "no seed keywords produced")
	}
	return seeds, usedFallback, nil
}

func (o *Orchestrator) runEnriching(ctx context.Context, jobID string, job model.Job, seeds []string) ([]model.Keyword, error) {
	o.advance(jobID, progressEnriching, "fetching metrics")

	keywords, err := o.metrics.Fetch(ctx, seeds, job.Country, job.ResolvedLanguage)
	if err != nil {
		return nil, fail(kindNoMetrics, "enriching", "metrics fetch: %v", err)
	}
	if len(keywords) == 0 {
		return nil, fail(kindNoMetrics, "enriching", "metrics provider returned no keywords")
	}
	return keywords, nil
}

func (o *Orchestrator) runClustering(ctx context.Context, jobID string, job model.Job, scrape *model.ScrapeResult, keywords []model.Keyword) ([]model.Cluster, []string, error) {
	o.advance(jobID, progressClustering, "clustering")

	algorithm := job.Options.ClusterAlgorithm
	if algorithm == "" {
		algorithm = o.opts.DefaultAlgorithm
	}
	minClusterSize := job.Options.MinClusterSize
	if minClusterSize < 1 {
		minClusterSize = cluster.DefaultMinClusterSize
	}

	siteCtx := buildSiteContext(scrape)
	clusters, err := cluster.Run(keywords, algorithm, minClusterSize, siteCtx)
	if err != nil {
		return nil, nil, fail(kindClusterEmpty, "clustering", "clustering: %v", err)
	}
	if len(clusters) == 0 {
		return nil, nil, fail(kindClusterEmpty, "clustering", "no clusters survived relevance filtering")
	}

	var warnings []string
	if job.Options.UseAI && o.enhancer.Enabled() {
		clusters, warnings = o.applyAIEnhancement(ctx, clusters, keywords, siteCtx, job.ResolvedLanguage, minClusterSize)
	} else {
		clusters = fillDeterministicNarratives(clusters, siteCtx.RawText)
	}

	return clusters, warnings, nil
}

// applyAIEnhancement runs the regroup/scrutinize/enhance passes,
// converting any individual failure into a warning (non-fatal per
// spec.md §7) rather than failing the whole job.
func (o *Orchestrator) applyAIEnhancement(ctx context.Context, clusters []model.Cluster, keywords []model.Keyword, siteCtx cluster.SiteContext, language string, minClusterSize int) ([]model.Cluster, []string) {
	var warnings []string
	summary := siteCtx.RawText

	if regroup, err := o.enhancer.RegroupSuggestions(ctx, clusters, summary, language); err != nil {
		warnings = append(warnings, fmt.Sprintf("AIUnavailable: regroup: %v", err))
		metrics.RecordAICall("regroup", false)
		metrics.RecordAIFallback("regroup")
	} else {
		clusters = aienhancer.ApplyRegroup(clusters, regroup)
		metrics.RecordAICall("regroup", true)
	}

	if scrutiny, err := o.enhancer.Scrutinize(ctx, clusters, keywords, summary, language); err != nil {
		warnings = append(warnings, fmt.Sprintf("AIUnavailable: scrutinize: %v", err))
		metrics.RecordAICall("scrutinize", false)
		metrics.RecordAIFallback("scrutinize")
	} else {
		clusters = aienhancer.ApplyScrutinize(clusters, scrutiny)
		metrics.RecordAICall("scrutinize", true)
	}

	clusters = cluster.EnforceUniqueness(clusters, minClusterSize)
	for i := range clusters {
		clusters[i] = cluster.RecomputeMetrics(clusters[i])
	}
	clusters = cluster.RankClusters(clusters)

	for i := range clusters {
		enh, err := o.enhancer.EnhanceCluster(ctx, clusters[i], summary, language)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("AIUnavailable: enhanceCluster %s: %v", clusters[i].PillarTopic, err))
			metrics.RecordAICall("enhanceCluster", false)
			metrics.RecordAIFallback("enhanceCluster")
			clusters[i].AIDescription = aienhancer.FallbackDescription(clusters[i], summary)
			clusters[i].AIContentStrategy = aienhancer.FallbackContentStrategy(clusters[i], summary)
			continue
		}
		metrics.RecordAICall("enhanceCluster", true)
		clusters[i].AIDescription = enh.Description
		clusters[i].AIContentStrategy = enh.ContentStrategy
		if enh.PillarTopic != "" {
			clusters[i].PillarTopic = enh.PillarTopic
		}
	}

	return clusters, warnings
}

func fillDeterministicNarratives(clusters []model.Cluster, siteSummary string) []model.Cluster {
	for i := range clusters {
		if clusters[i].AIDescription == "" {
			clusters[i].AIDescription = aienhancer.FallbackDescription(clusters[i], siteSummary)
		}
		if clusters[i].AIContentStrategy == "" {
			clusters[i].AIContentStrategy = aienhancer.FallbackContentStrategy(clusters[i], siteSummary)
		}
	}
	return clusters
}

func (o *Orchestrator) finalize(jobID string, clusters []model.Cluster, warnings []string, start time.Time, log *slog.Logger) {
	o.advance(jobID, progressFinalizing, "finalizing")

	o.store.Update(jobID, func(j *model.Job) {
		j.Data = &model.ResultData{Clusters: clusters}
		j.Warnings = append(j.Warnings, warnings...)
		j.Status = model.StatusCompleted
		j.Progress = progressCompleted
		j.Step = "completed"
		now := time.Now().UTC()
		j.CompletedAt = &now
		j.ProcessingTimeMs = time.Since(start).Milliseconds()
	})

	metrics.RecordJobFinished("completed", "", time.Since(start).Milliseconds())
	metrics.RecordClustersProduced(len(clusters))

	log.Info("pipeline completed",
		"stage", "completed",
		"progress", progressCompleted,
		"clusters", len(clusters),
		"warnings", len(warnings),
		"elapsed", humanize.RelTime(start, time.Now(), "", ""),
	)
}

func (o *Orchestrator) failJob(jobID string, err error, log *slog.Logger, start time.Time) {
	var se *stageError
	stage := "unknown"
	kind := kindInternal
	message := err.Error()
	if errors.As(err, &se) {
		stage = se.stage
		kind = se.kind
		message = se.message
	}

	o.store.Update(jobID, func(j *model.Job) {
		j.Status = model.StatusFailed
		j.Error = message
		j.Step = stage
		now := time.Now().UTC()
		j.FailedAt = &now
	})

	metrics.RecordJobFinished("failed", stage, time.Since(start).Milliseconds())

	log.Error("pipeline stage failed", "stage", stage, "kind", kind, "error", message)
}
