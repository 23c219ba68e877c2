package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/events"
	"github.com/alfredjeanlab/vendorwatch/internal/idgen"
	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

// Status is the per-vendor outcome of one monitoring cycle.
type Status string

const (
	StatusFirstSnapshot Status = "first_snapshot"
	StatusUnchanged     Status = "unchanged"
	StatusChanged       Status = "changed"
	StatusError         Status = "error"
)

// VendorResult is the outcome of processing one vendor in a cycle.
type VendorResult struct {
	VendorID    string         `json:"vendor_id"`
	VendorName  string         `json:"vendor_name"`
	Status      Status         `json:"status"`
	Error       string         `json:"error,omitempty"`
	RiskEventID string         `json:"risk_event_id,omitempty"`
	Severity    model.Severity `json:"severity,omitempty"`
	AlertSent   bool           `json:"alert_sent,omitempty"`
}

// ProgressEvent is streamed to the cycle's subscriber as vendors are
// processed.
type ProgressEvent struct {
	Kind       string         `json:"kind"` // progress, result, complete, error
	CycleID    string         `json:"cycle_id"`
	Index      int            `json:"index,omitempty"` // 1-based
	Total      int            `json:"total"`
	VendorID   string         `json:"vendor_id,omitempty"`
	VendorName string         `json:"vendor_name,omitempty"`
	Result     *VendorResult  `json:"result,omitempty"`
	Results    []VendorResult `json:"results,omitempty"` // set on complete
	Error      string         `json:"error,omitempty"`
}

// Options configures a single cycle run. Passing options per run (rather
// than mutating orchestrator state) keeps concurrent cycles isolated.
type Options struct {
	VendorID        string // restrict the run to one vendor
	ResearchMode    string // "basic" or "deep"
	AlertSeverities []model.Severity
	CrawlMaxPages   int
	Progress        func(ProgressEvent)
}

// Orchestrator runs monitoring cycles: per vendor it fetches content,
// detects change by fingerprint, extracts structured facts, classifies the
// change, and persists the outcome. Vendors are processed strictly
// sequentially to bound load on external services.
type Orchestrator struct {
	store     store.Store
	scraper   Scraper
	crawler   Crawler
	searcher  Searcher
	extractor Extractor
	narrator  Narrator
	notifier  Notifier
	publisher events.Publisher
	logger    *slog.Logger

	cancelled atomic.Bool
	running   atomic.Bool
}

// Deps bundles the orchestrator's collaborators. Store, Scraper, and Logger
// are required; everything else is optional and degrades to "no enrichment".
type Deps struct {
	Store     store.Store
	Scraper   Scraper
	Crawler   Crawler
	Searcher  Searcher
	Extractor Extractor
	Narrator  Narrator
	Notifier  Notifier
	Publisher events.Publisher
	Logger    *slog.Logger
}

// New builds an Orchestrator from its collaborators.
func New(deps Deps) *Orchestrator {
	pub := deps.Publisher
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:     deps.Store,
		scraper:   deps.Scraper,
		crawler:   deps.Crawler,
		searcher:  deps.Searcher,
		extractor: deps.Extractor,
		narrator:  deps.Narrator,
		notifier:  deps.Notifier,
		publisher: pub,
		logger:    logger,
	}
}

// RequestCancellation asks a running cycle to stop. The flag is checked at
// vendor-loop boundaries only; an in-flight vendor finishes normally.
func (o *Orchestrator) RequestCancellation() {
	o.cancelled.Store(true)
}

// Running reports whether a cycle is currently in progress.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// RunCycle processes the configured vendors sequentially and returns the
// per-vendor results. A vendor's failure never aborts the cycle; only
// cancellation stops it early, and then with partial results.
func (o *Orchestrator) RunCycle(ctx context.Context, opts Options) ([]VendorResult, error) {
	cycleID, err := idgen.Generate(idgen.PrefixCycle)
	if err != nil {
		return nil, fmt.Errorf("generate cycle id: %w", err)
	}
	o.cancelled.Store(false)
	o.running.Store(true)
	defer o.running.Store(false)

	vendors, err := o.cycleVendors(ctx, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	o.publish(ctx, events.TopicCycleStarted, events.CycleStarted{
		CycleID: cycleID, VendorCount: len(vendors),
	})
	o.logger.Info("cycle started", "cycle", cycleID, "vendors", len(vendors))

	results := make([]VendorResult, 0, len(vendors))
	cancelled := false
	for i, vendor := range vendors {
		if o.cancelled.Load() || ctx.Err() != nil {
			cancelled = true
			break
		}

		o.emit(opts, ProgressEvent{
			Kind: "progress", CycleID: cycleID,
			Index: i + 1, Total: len(vendors),
			VendorID: vendor.ID, VendorName: vendor.Name,
		})
		o.publish(ctx, events.TopicCycleProgress, events.CycleProgress{
			CycleID: cycleID, VendorID: vendor.ID, VendorName: vendor.Name,
			Index: i + 1, Total: len(vendors), Stage: "fetch",
		})

		res := o.processVendor(ctx, vendor, opts)
		results = append(results, res)

		o.emit(opts, ProgressEvent{
			Kind: "result", CycleID: cycleID,
			Index: i + 1, Total: len(vendors),
			VendorID: vendor.ID, VendorName: vendor.Name,
			Result: &res,
		})
		o.publish(ctx, events.TopicCycleResult, events.CycleResult{
			CycleID: cycleID, VendorID: vendor.ID, VendorName: vendor.Name,
			Status: string(res.Status), EventID: res.RiskEventID,
			Severity: string(res.Severity), Error: res.Error,
		})
	}

	changed, errored := 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusChanged, StatusFirstSnapshot:
			changed++
		case StatusError:
			errored++
		}
	}
	o.emit(opts, ProgressEvent{
		Kind: "complete", CycleID: cycleID,
		Total: len(vendors), Results: results,
	})
	o.publish(ctx, events.TopicCycleCompleted, events.CycleCompleted{
		CycleID: cycleID, Checked: len(results), Changed: changed,
		Errored: errored, Cancelled: cancelled,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	})
	o.logger.Info("cycle completed", "cycle", cycleID,
		"checked", len(results), "changed", changed, "errored", errored,
		"cancelled", cancelled, "duration", time.Since(start))

	return results, nil
}

func (o *Orchestrator) cycleVendors(ctx context.Context, opts Options) ([]*model.Vendor, error) {
	if opts.VendorID != "" {
		vendor, err := o.store.GetVendor(ctx, opts.VendorID)
		if err != nil {
			return nil, fmt.Errorf("get vendor %s: %w", opts.VendorID, err)
		}
		return []*model.Vendor{vendor}, nil
	}
	vendors, err := o.store.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

// processVendor runs the full pipeline for one vendor. Only a primary-page
// scrape failure (or a persistence failure) is fatal to the vendor;
// enrichment failures degrade silently.
func (o *Orchestrator) processVendor(ctx context.Context, vendor *model.Vendor, opts Options) VendorResult {
	res := VendorResult{VendorID: vendor.ID, VendorName: vendor.Name}

	page, err := o.scraper.Fetch(ctx, vendor.Website)
	if err != nil {
		o.logger.Warn("scrape failed", "vendor", vendor.ID, "url", vendor.Website, "error", err)
		res.Status = StatusError
		res.Error = fmt.Sprintf("fetch %s: %v", vendor.Website, err)
		return res
	}

	prev, err := o.store.LatestSnapshot(ctx, vendor.ID)
	if err != nil {
		o.logger.Error("latest snapshot lookup failed", "vendor", vendor.ID, "error", err)
		res.Status = StatusError
		res.Error = fmt.Sprintf("latest snapshot: %v", err)
		return res
	}

	// For a first observation, one bounded multi-page crawl builds a richer
	// baseline. Failures fall back to the single-page content.
	combined := page.Text
	if prev == nil && o.crawler != nil {
		crawl, err := o.crawler.CrawlSite(ctx, vendor.Website, opts.CrawlMaxPages)
		if err != nil {
			o.logger.Warn("baseline crawl failed", "vendor", vendor.ID, "error", err)
		} else if crawl.Text != "" {
			combined = crawl.Text
		}
	}

	// External risk signals are collected every cycle, independent of change
	// detection. They become context sources only, never extraction input.
	var contextSources []string
	if o.searcher != nil {
		search, err := o.searcher.SearchNews(ctx, vendor.Name+" terms pricing security change")
		if err != nil {
			o.logger.Warn("news search failed", "vendor", vendor.ID, "error", err)
		} else {
			contextSources = search.Sources
		}
	}

	fp := Fingerprint(combined)
	if prev != nil && prev.Fingerprint == fp {
		res.Status = StatusUnchanged
		return res
	}

	data, sourceURL := extractStructured(ctx, o.extractor, vendor, page, o.logger)

	var prevData *model.StructuredData
	if prev != nil {
		prevData = prev.Structured
	}
	event := o.classify(ctx, vendor, prevData, data, combined, opts)
	event.ContextSources = contextSources

	now := time.Now().UTC()
	event.CreatedAt = now
	snapshot := &model.Snapshot{
		VendorID:         vendor.ID,
		Fingerprint:      fp,
		RawText:          combined,
		Structured:       data,
		ExtractionSource: sourceURL,
		ContextSources:   contextSources,
		CreatedAt:        now,
	}
	if snapshot.ID, err = idgen.Generate(idgen.PrefixSnapshot); err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		return res
	}
	if event.ID, err = idgen.Generate(idgen.PrefixRiskEvent); err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		return res
	}

	// Notification is attempted before persistence so the stored event and
	// the risk.created payload carry the final alert_sent value; risk events
	// are append-only and never updated in place.
	gate := NewAlertGate(opts.AlertSeverities, o.notifier, o.logger)
	if gate.Dispatch(ctx, event) {
		event.AlertSent = true
		res.AlertSent = true
	}

	if err := o.store.SaveCycleOutcome(ctx, snapshot, event); err != nil {
		o.logger.Error("persist cycle outcome failed", "vendor", vendor.ID, "error", err)
		res.Status = StatusError
		res.Error = fmt.Sprintf("save outcome: %v", err)
		return res
	}
	o.publish(ctx, events.TopicRiskCreated, events.RiskCreated{Event: event})
	if event.AlertSent {
		o.publish(ctx, events.TopicAlertSent, events.AlertSent{
			EventID: event.ID, VendorID: vendor.ID, Severity: string(event.Severity),
			Summary: ConciseSummary(data),
		})
	}

	if prev == nil {
		res.Status = StatusFirstSnapshot
	} else {
		res.Status = StatusChanged
	}
	res.RiskEventID = event.ID
	res.Severity = event.Severity
	return res
}

// classify builds the risk event for a changed or first-observed vendor.
// The rule engine is total, so this always produces a well-formed event;
// deep-mode narrative output replaces the headline fields only when it
// parses cleanly with a known severity.
func (o *Orchestrator) classify(ctx context.Context, vendor *model.Vendor, prevData, data *model.StructuredData, content string, opts Options) *model.RiskEvent {
	ruleResults := Classify(prevData, data)

	event := &model.RiskEvent{
		VendorID: vendor.ID,
		Source:   model.SourceRules,
	}
	if len(ruleResults) == 0 {
		event.Severity = model.SeverityLow
		event.Type = "content_change"
		event.Summary = "Vendor content changed with no classified commitment changes."
		event.RecommendedAction = "Review the vendor's pages for context if the change matters to you."
	} else {
		primary := ruleResults[0]
		event.Severity = primary.Severity
		event.Type = primary.Type
		event.Summary = primary.Summary
		event.RecommendedAction = primary.Action
	}
	// A first observation is a baseline, not a change: the full commitment
	// inventory is the summary, not a firing rule's one-liner.
	if prevData == nil {
		if s := CanonicalSummary(data); s != "" {
			event.Summary = s
		}
	}

	findings := BuildFindings(data)
	// Lower-priority firing rules are retained as findings rather than
	// spawning separate events.
	for _, r := range ruleResults[min(1, len(ruleResults)):] {
		findings = append(findings, model.RiskFinding{
			Category: r.Category,
			Fact:     r.Summary,
			Concern:  r.Severity,
		})
	}
	event.Findings = findings
	if action := BuildRecommendedAction(findings); action != "" {
		event.RecommendedAction = action
	}

	if opts.ResearchMode == "deep" && o.narrator != nil {
		narrative, err := o.narrator.Analyze(ctx, vendor, content, data)
		if err != nil {
			o.logger.Warn("narrative generation failed", "vendor", vendor.ID, "error", err)
		} else if sev := model.Severity(narrative.Severity); sev.IsValid() {
			event.Severity = sev
			event.Source = model.SourceAI
			if narrative.Type != "" {
				event.Type = narrative.Type
			}
			if narrative.Summary != "" {
				event.Summary = narrative.Summary
			}
			if narrative.Action != "" {
				event.RecommendedAction = narrative.Action
			}
		} else {
			o.logger.Warn("narrative severity unrecognized, keeping rule result",
				"vendor", vendor.ID, "severity", narrative.Severity)
		}
	}
	return event
}

func (o *Orchestrator) emit(opts Options, ev ProgressEvent) {
	if opts.Progress != nil {
		opts.Progress(ev)
	}
}

func (o *Orchestrator) publish(ctx context.Context, topic string, event any) {
	if err := o.publisher.Publish(ctx, topic, event); err != nil {
		o.logger.Warn("publish failed", "topic", topic, "error", err)
	}
}
