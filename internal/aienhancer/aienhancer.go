// Package aienhancer wraps an llm.Client with the four prompt shapes
// the clustering pipeline needs: seed-keyword generation, cluster
// regrouping, keyword scrutiny, and per-cluster enrichment. Every
// method parses the model's response as JSON and returns a plain Go
// error on any parse/IO failure so the caller can fall back to the
// deterministic paths described alongside each step.
package aienhancer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"keywordscope/internal/llm"
	"keywordscope/internal/model"
)

// Enhancer is the optional AI collaborator. A nil client means AI
// enhancement is disabled; callers should check Enabled before use.
type Enhancer struct {
	client llm.Client
}

func New(client llm.Client) *Enhancer {
	return &Enhancer{client: client}
}

// Enabled reports whether a real AI client is configured.
func (e *Enhancer) Enabled() bool {
	return e != nil && e.client != nil
}

const seedKeywordsSystemPrompt = `You are an SEO keyword researcher. Given a summary of a website, respond with ONLY a JSON array of short marketing-focused keyword phrases (1-3 words each) in the requested language, ordered from most to least relevant. No prose, no explanation, no markdown fences.`

// GenerateSeedKeywords asks the AI for up to max candidate keywords
// derived from the scrape. Callers fall back to the deterministic
// seed generator on any error.
func (e *Enhancer) GenerateSeedKeywords(ctx context.Context, scrape *model.ScrapeResult, language string, max int) ([]string, error) {
	if !e.Enabled() {
		return nil, fmt.Errorf("aienhancer: no client configured")
	}

	userPrompt := fmt.Sprintf(
		"Language: %s\nMax keywords: %d\n\nSite summary:\n%s",
		language, max, summarizeScrape(scrape),
	)

	raw, err := e.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: seedKeywordsSystemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("aienhancer: generateSeedKeywords: %w", err)
	}

	snippet, ok := llm.ExtractJSONSnippet(raw)
	if !ok {
		return nil, fmt.Errorf("aienhancer: generateSeedKeywords: no JSON in response")
	}

	var seeds []string
	if err := json.Unmarshal([]byte(snippet), &seeds); err != nil {
		return nil, fmt.Errorf("aienhancer: generateSeedKeywords: %w", err)
	}

	seeds = dedupeNonEmpty(seeds)
	if len(seeds) > max {
		seeds = seeds[:max]
	}
	return seeds, nil
}

func summarizeScrape(scrape *model.ScrapeResult) string {
	if scrape == nil || len(scrape.Pages) == 0 {
		return "(no pages scraped)"
	}

	var sb strings.Builder
	limit := len(scrape.Pages)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		p := scrape.Pages[i]
		fmt.Fprintf(&sb, "- %s\n  title: %s\n  description: %s\n", p.URL, p.Title, p.MetaDescription)
		for level := 1; level <= 2; level++ {
			for _, h := range p.Headings[level] {
				fmt.Fprintf(&sb, "  h%d: %s\n", level, h)
			}
		}
	}
	return sb.String()
}

// RegroupResult is the AI's proposal for cluster-level naming and
// prioritization, applied by ApplyRegroup.
type RegroupResult struct {
	Renames            map[string]string `json:"renames"`
	PriorityClusterIDs []string          `json:"priorityClusterIds"`
}

const regroupSystemPrompt = `You are reviewing keyword clusters for a content strategy. Respond with ONLY JSON of the shape {"renames": {"<clusterId>": "new pillar topic"}, "priorityClusterIds": ["<clusterId>", ...]}. Only include clusters that genuinely need a clearer pillar topic name or deserve priority. No prose.`

// RegroupSuggestions asks the AI to propose renames and priority
// flags across all clusters in one pass.
func (e *Enhancer) RegroupSuggestions(ctx context.Context, clusters []model.Cluster, siteContext, language string) (RegroupResult, error) {
	if !e.Enabled() {
		return RegroupResult{}, fmt.Errorf("aienhancer: no client configured")
	}

	userPrompt := fmt.Sprintf(
		"Language: %s\nSite context: %s\n\nClusters:\n%s",
		language, siteContext, summarizeClusters(clusters),
	)

	raw, err := e.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: regroupSystemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return RegroupResult{}, fmt.Errorf("aienhancer: regroupSuggestions: %w", err)
	}

	snippet, ok := llm.ExtractJSONSnippet(raw)
	if !ok {
		return RegroupResult{}, fmt.Errorf("aienhancer: regroupSuggestions: no JSON in response")
	}

	var result RegroupResult
	if err := json.Unmarshal([]byte(snippet), &result); err != nil {
		return RegroupResult{}, fmt.Errorf("aienhancer: regroupSuggestions: %w", err)
	}
	return result, nil
}

// ApplyRegroup applies renames and priority flags to clusters in
// place, returning the updated slice.
func ApplyRegroup(clusters []model.Cluster, res RegroupResult) []model.Cluster {
	priority := make(map[string]bool, len(res.PriorityClusterIDs))
	for _, id := range res.PriorityClusterIDs {
		priority[id] = true
	}

	for i := range clusters {
		if name, ok := res.Renames[clusters[i].ID]; ok && strings.TrimSpace(name) != "" {
			clusters[i].PillarTopic = name
		}
		if priority[clusters[i].ID] {
			clusters[i].AIPriority = true
		}
	}
	return clusters
}

// KeywordReassignment moves a single keyword from one cluster to
// another.
type KeywordReassignment struct {
	Keyword       string `json:"keyword"`
	FromClusterID string `json:"fromClusterId"`
	ToClusterID   string `json:"toClusterId"`
}

// ScrutinizeResult is the AI's audit of cluster membership.
type ScrutinizeResult struct {
	Renames       map[string]string      `json:"renames"`
	Merges        [][2]string            `json:"merges"`
	Reassignments []KeywordReassignment  `json:"reassignments"`
}

const scrutinizeSystemPrompt = `You are auditing keyword cluster assignments for mistakes. Respond with ONLY JSON of the shape {"renames": {"<clusterId>": "new pillar topic"}, "merges": [["<clusterIdToMerge>", "<clusterIdToKeep>"]], "reassignments": [{"keyword": "...", "fromClusterId": "...", "toClusterId": "..."}]}. Only propose changes you are confident about. No prose.`

// Scrutinize asks the AI to audit keyword assignments across all
// clusters, proposing renames, merges, and individual reassignments.
func (e *Enhancer) Scrutinize(ctx context.Context, clusters []model.Cluster, keywords []model.Keyword, siteContext, language string) (ScrutinizeResult, error) {
	if !e.Enabled() {
		return ScrutinizeResult{}, fmt.Errorf("aienhancer: no client configured")
	}

	userPrompt := fmt.Sprintf(
		"Language: %s\nSite context: %s\n\nClusters:\n%s\n\nAll keywords: %s",
		language, siteContext, summarizeClusters(clusters), strings.Join(keywordTexts(keywords), ", "),
	)

	raw, err := e.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: scrutinizeSystemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return ScrutinizeResult{}, fmt.Errorf("aienhancer: scrutinize: %w", err)
	}

	snippet, ok := llm.ExtractJSONSnippet(raw)
	if !ok {
		return ScrutinizeResult{}, fmt.Errorf("aienhancer: scrutinize: no JSON in response")
	}

	var result ScrutinizeResult
	if err := json.Unmarshal([]byte(snippet), &result); err != nil {
		return ScrutinizeResult{}, fmt.Errorf("aienhancer: scrutinize: %w", err)
	}
	return result, nil
}

// ApplyScrutinize applies renames, then merges (moving keywords
// through assignKeyword to preserve per-cluster uniqueness), then
// individual reassignments. Clusters left with zero keywords are
// dropped from the returned slice.
func ApplyScrutinize(clusters []model.Cluster, res ScrutinizeResult) []model.Cluster {
	indexByID := make(map[string]int, len(clusters))
	for i, c := range clusters {
		indexByID[c.ID] = i
	}

	for id, name := range res.Renames {
		if i, ok := indexByID[id]; ok && strings.TrimSpace(name) != "" {
			clusters[i].PillarTopic = name
		}
	}

	for _, pair := range res.Merges {
		fromIdx, fromOK := indexByID[pair[0]]
		intoIdx, intoOK := indexByID[pair[1]]
		if !fromOK || !intoOK || fromIdx == intoIdx {
			continue
		}
		for _, kw := range clusters[fromIdx].Keywords {
			assignKeyword(clusters, intoIdx, kw)
		}
		clusters[fromIdx].Keywords = nil
	}

	for _, r := range res.Reassignments {
		toIdx, toOK := indexByID[r.ToClusterID]
		if !toOK {
			continue
		}
		fromIdx, fromOK := indexByID[r.FromClusterID]
		if !fromOK || fromIdx == toIdx {
			continue
		}
		kw, found := removeKeyword(clusters, fromIdx, r.Keyword)
		if !found {
			continue
		}
		assignKeyword(clusters, toIdx, kw)
	}

	out := clusters[:0]
	for _, c := range clusters {
		if len(c.Keywords) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// assignKeyword moves kw into clusters[idx].Keywords, skipping the
// move if that cluster already holds a keyword with the same text.
func assignKeyword(clusters []model.Cluster, idx int, kw model.Keyword) {
	for _, existing := range clusters[idx].Keywords {
		if existing.Text == kw.Text {
			return
		}
	}
	clusters[idx].Keywords = append(clusters[idx].Keywords, kw)
}

func removeKeyword(clusters []model.Cluster, idx int, text string) (model.Keyword, bool) {
	for i, kw := range clusters[idx].Keywords {
		if kw.Text == text {
			clusters[idx].Keywords = append(clusters[idx].Keywords[:i], clusters[idx].Keywords[i+1:]...)
			return kw, true
		}
	}
	return model.Keyword{}, false
}

// ClusterEnhancement is the AI's write-up for a single cluster.
type ClusterEnhancement struct {
	PillarTopic     string `json:"pillarTopic"`
	Description     string `json:"description"`
	ContentStrategy string `json:"contentStrategy"`
}

const enhanceClusterSystemPrompt = `You are a content strategist. Given one keyword cluster, respond with ONLY JSON of the shape {"pillarTopic": "...", "description": "...", "contentStrategy": "..."}. pillarTopic may be left empty to keep the existing one. description is 1-2 sentences. contentStrategy is 1-3 sentences of actionable advice. No prose outside the JSON.`

// EnhanceCluster asks the AI to write a pillar topic, description,
// and content strategy for a single cluster.
func (e *Enhancer) EnhanceCluster(ctx context.Context, cluster model.Cluster, siteContext, language string) (ClusterEnhancement, error) {
	if !e.Enabled() {
		return ClusterEnhancement{}, fmt.Errorf("aienhancer: no client configured")
	}

	userPrompt := fmt.Sprintf(
		"Language: %s\nSite context: %s\n\nCluster pillar: %s\nTop keywords: %s\nTotal search volume: %d",
		language, siteContext, cluster.PillarTopic,
		strings.Join(topKeywordTexts(cluster, 8), ", "), cluster.TotalSearchVolume,
	)

	raw, err := e.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: enhanceClusterSystemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return ClusterEnhancement{}, fmt.Errorf("aienhancer: enhanceCluster: %w", err)
	}

	snippet, ok := llm.ExtractJSONSnippet(raw)
	if !ok {
		return ClusterEnhancement{}, fmt.Errorf("aienhancer: enhanceCluster: no JSON in response")
	}

	var result ClusterEnhancement
	if err := json.Unmarshal([]byte(snippet), &result); err != nil {
		return ClusterEnhancement{}, fmt.Errorf("aienhancer: enhanceCluster: %w", err)
	}
	return result, nil
}

// FallbackDescription deterministically fills in a cluster
// description when AI enhancement is unavailable or returned an
// empty string, using the pillar topic, top keywords, and site
// context.
func FallbackDescription(cluster model.Cluster, siteContext string) string {
	top := topKeywordTexts(cluster, 4)
	context := strings.TrimSpace(siteContext)
	if context == "" {
		context = "this site"
	}
	return fmt.Sprintf(
		"%s groups %d keyword%s around %s, including %s, relevant to %s.",
		cluster.PillarTopic, len(cluster.Keywords), plural(len(cluster.Keywords)),
		cluster.PillarTopic, strings.Join(top, ", "), context,
	)
}

// FallbackContentStrategy deterministically fills in a content
// strategy when AI enhancement is unavailable or returned an empty
// string.
func FallbackContentStrategy(cluster model.Cluster, siteContext string) string {
	top := topKeywordTexts(cluster, 4)
	return fmt.Sprintf(
		"Publish or update a pillar page targeting \"%s\" and link out to supporting content covering %s. Prioritize the highest-volume terms first.",
		cluster.PillarTopic, strings.Join(top, ", "),
	)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func topKeywordTexts(cluster model.Cluster, n int) []string {
	if n > len(cluster.Keywords) {
		n = len(cluster.Keywords)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cluster.Keywords[i].Text)
	}
	return out
}

func keywordTexts(keywords []model.Keyword) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = k.Text
	}
	return out
}

func summarizeClusters(clusters []model.Cluster) string {
	var sb strings.Builder
	for _, c := range clusters {
		fmt.Fprintf(&sb, "- id=%s pillar=%q volume=%d keywords=%s\n",
			c.ID, c.PillarTopic, c.TotalSearchVolume, strings.Join(topKeywordTexts(c, 5), ", "))
	}
	return sb.String()
}

func dedupeNonEmpty(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
