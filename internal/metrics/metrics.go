// Package metrics implements simple Prometheus-style in-memory
// counters for HTTP requests and the job pipeline. Intentionally
// minimal — no external metrics client, matching the teacher's own
// hand-rolled exporter.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)

	jobsCreatedTotal   int64
	jobsByStatus       = make(map[string]int64)
	jobsFailedByStage  = make(map[string]int64)
	jobProcessingMsSum int64
	jobProcessingCount int64

	clustersProducedTotal int64
	aiFallbackTotal       = make(map[string]int64)
	aiCallsTotal          = make(map[aiKey]int64)

	retentionJobsSweptTotal int64
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

type aiKey struct {
	Operation string
	Success   string
}

// RecordRequest increments the request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordJobCreated increments the total jobs-created counter.
func RecordJobCreated() {
	mu.Lock()
	defer mu.Unlock()
	jobsCreatedTotal++
}

// RecordJobFinished records a job's terminal status and, for failures,
// the stage it failed at. processingMs is the job's total wall time.
func RecordJobFinished(status string, stage string, processingMs int64) {
	mu.Lock()
	defer mu.Unlock()

	jobsByStatus[status]++
	if status == "failed" && stage != "" {
		jobsFailedByStage[stage]++
	}
	if processingMs > 0 {
		jobProcessingMsSum += processingMs
		jobProcessingCount++
	}
}

// RecordClustersProduced adds to the running total of clusters
// produced across all completed jobs.
func RecordClustersProduced(count int) {
	if count <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	clustersProducedTotal += int64(count)
}

// RecordAICall increments counters for an AI enhancement operation
// (regroup, scrutinize, enhance) keyed by whether it succeeded.
func RecordAICall(operation string, success bool) {
	mu.Lock()
	defer mu.Unlock()

	s := "false"
	if success {
		s = "true"
	}
	aiCallsTotal[aiKey{Operation: operation, Success: s}]++
}

// RecordAIFallback increments the counter of times a given AI
// operation fell back to its deterministic substitute after failing.
func RecordAIFallback(operation string) {
	mu.Lock()
	defer mu.Unlock()
	aiFallbackTotal[operation]++
}

// RecordRetentionSweep adds to the running total of jobs removed by
// the job store's TTL sweeper.
func RecordRetentionSweep(removed int) {
	if removed <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	retentionJobsSweptTotal += int64(removed)
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP keywordscope_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE keywordscope_http_requests_total counter\n")

	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})
	for _, k := range reqKeys {
		fmt.Fprintf(&b, "keywordscope_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, requestsTotal[k])
	}

	b.WriteString("# HELP keywordscope_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE keywordscope_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP keywordscope_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE keywordscope_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})
	for _, k := range latKeys {
		fmt.Fprintf(&b, "keywordscope_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsSum[k])
		fmt.Fprintf(&b, "keywordscope_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsCount[k])
	}

	b.WriteString("# HELP keywordscope_jobs_created_total Total research jobs created\n")
	b.WriteString("# TYPE keywordscope_jobs_created_total counter\n")
	fmt.Fprintf(&b, "keywordscope_jobs_created_total %d\n", jobsCreatedTotal)

	b.WriteString("# HELP keywordscope_jobs_total Total research jobs by terminal status\n")
	b.WriteString("# TYPE keywordscope_jobs_total counter\n")
	var statuses []string
	for s := range jobsByStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(&b, "keywordscope_jobs_total{status=\"%s\"} %d\n", s, jobsByStatus[s])
	}

	b.WriteString("# HELP keywordscope_jobs_failed_total Total failed research jobs by failure stage\n")
	b.WriteString("# TYPE keywordscope_jobs_failed_total counter\n")
	var stages []string
	for s := range jobsFailedByStage {
		stages = append(stages, s)
	}
	sort.Strings(stages)
	for _, s := range stages {
		fmt.Fprintf(&b, "keywordscope_jobs_failed_total{stage=\"%s\"} %d\n", s, jobsFailedByStage[s])
	}

	b.WriteString("# HELP keywordscope_job_processing_ms_sum Total job processing time in milliseconds\n")
	b.WriteString("# TYPE keywordscope_job_processing_ms_sum counter\n")
	fmt.Fprintf(&b, "keywordscope_job_processing_ms_sum %d\n", jobProcessingMsSum)
	b.WriteString("# HELP keywordscope_job_processing_ms_count Finished (completed or failed) job count for processing time metric\n")
	b.WriteString("# TYPE keywordscope_job_processing_ms_count counter\n")
	fmt.Fprintf(&b, "keywordscope_job_processing_ms_count %d\n", jobProcessingCount)

	b.WriteString("# HELP keywordscope_clusters_produced_total Total clusters produced across all jobs\n")
	b.WriteString("# TYPE keywordscope_clusters_produced_total counter\n")
	fmt.Fprintf(&b, "keywordscope_clusters_produced_total %d\n", clustersProducedTotal)

	b.WriteString("# HELP keywordscope_ai_calls_total Total AI enhancement calls by operation and outcome\n")
	b.WriteString("# TYPE keywordscope_ai_calls_total counter\n")
	var aiKeys []aiKey
	for k := range aiCallsTotal {
		aiKeys = append(aiKeys, k)
	}
	sort.Slice(aiKeys, func(i, j int) bool {
		if aiKeys[i].Operation != aiKeys[j].Operation {
			return aiKeys[i].Operation < aiKeys[j].Operation
		}
		return aiKeys[i].Success < aiKeys[j].Success
	})
	for _, k := range aiKeys {
		fmt.Fprintf(&b, "keywordscope_ai_calls_total{operation=\"%s\",success=\"%s\"} %d\n",
			k.Operation, k.Success, aiCallsTotal[k])
	}

	b.WriteString("# HELP keywordscope_ai_fallback_total Total times an AI operation fell back to its deterministic substitute\n")
	b.WriteString("# TYPE keywordscope_ai_fallback_total counter\n")
	var fallbackOps []string
	for op := range aiFallbackTotal {
		fallbackOps = append(fallbackOps, op)
	}
	sort.Strings(fallbackOps)
	for _, op := range fallbackOps {
		fmt.Fprintf(&b, "keywordscope_ai_fallback_total{operation=\"%s\"} %d\n", op, aiFallbackTotal[op])
	}

	b.WriteString("# HELP keywordscope_retention_jobs_swept_total Total jobs removed by the job store TTL sweeper\n")
	b.WriteString("# TYPE keywordscope_retention_jobs_swept_total counter\n")
	fmt.Fprintf(&b, "keywordscope_retention_jobs_swept_total %d\n", retentionJobsSweptTotal)

	return b.String()
}

// reset clears all counters. Test-only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	requestsTotal = make(map[reqKey]int64)
	latencyMsSum = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)
	jobsCreatedTotal = 0
	jobsByStatus = make(map[string]int64)
	jobsFailedByStage = make(map[string]int64)
	jobProcessingMsSum = 0
	jobProcessingCount = 0
	clustersProducedTotal = 0
	aiFallbackTotal = make(map[string]int64)
	aiCallsTotal = make(map[aiKey]int64)
	retentionJobsSweptTotal = 0
}
