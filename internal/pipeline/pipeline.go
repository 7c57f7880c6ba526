// Package pipeline drives one report run end to end: assemble the
// event, merge it into the durable catalog, write the artifact set,
// and re-render every index page. The pipeline is strictly
// sequential; there is exactly one writer per invocation.
package pipeline

import (
	"context"
	"time"

	"github.com/cxo-ops/interrupt/internal/artifacts"
	"github.com/cxo-ops/interrupt/internal/audit"
	"github.com/cxo-ops/interrupt/internal/builder"
	"github.com/cxo-ops/interrupt/internal/lock"
	"github.com/cxo-ops/interrupt/internal/render"
	"github.com/cxo-ops/interrupt/internal/sources"
	"github.com/cxo-ops/interrupt/internal/store"
	"github.com/cxo-ops/interrupt/pkg/config"
	"github.com/cxo-ops/interrupt/pkg/logging"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/progress"
	"github.com/cxo-ops/interrupt/pkg/webhook"
)

// Pipeline wires the stages of a report run over one configuration.
type Pipeline struct {
	cfg      *config.Config
	logger   *logging.Logger
	builder  *builder.Builder
	writer   *artifacts.Writer
	renderer *render.Renderer
	auditLog *audit.Log
	notifier *webhook.Notifier
	lockMgr  *lock.Manager
	// flight guards the lock and the webhook; test runs take neither.
	flight bool
}

// New assembles a Pipeline. In flight mode the run takes the
// single-writer lock and fires webhook notifications; in test mode
// cfg should already point at the sandbox tree.
func New(cfg *config.Config, logger *logging.Logger, flight bool) *Pipeline {
	if logger == nil {
		logger = logging.New(logging.LevelInfo, logging.FormatText)
	}
	var notifier *webhook.Notifier
	if flight && cfg.Webhook.Enabled {
		notifier = webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.WebhookTimeout())
	} else {
		notifier = webhook.NewNotifier("", "", 0)
	}
	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		builder:  builder.New(sources.NewFileRegistry(cfg.Paths.SpaceWeatherDir), logger),
		writer:   artifacts.NewWriter(cfg, logger),
		renderer: render.New(cfg.Paths.WebDir, logger),
		auditLog: audit.NewLog(audit.DefaultPath(cfg.Paths.DataDir)),
		notifier: notifier,
		lockMgr:  lock.NewManager(cfg.Paths.DataDir, cfg.LockTTL()),
		flight:   flight,
	}
}

// Run publishes one interruption report: build, upsert, persist,
// artifacts, event page, all four indices, audit record, webhook.
func (p *Pipeline) Run(ctx context.Context, in builder.Input) (*model.Event, error) {
	if p.flight {
		rec, err := p.lockMgr.Acquire("report run")
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := p.lockMgr.Release(rec.HolderNonce); err != nil {
				p.logger.ErrorErr("failed to release run lock", err)
			}
		}()
	}

	ev, err := p.run(in)
	if err != nil {
		p.recordFailure(ctx, in, err)
		return nil, err
	}

	if err := p.auditLog.Append(audit.ActionPublished, ev.Name, string(ev.Mode), map[string]any{
		"tlost_ks": ev.TLostKS,
		"hardness": ev.Hardness,
	}); err != nil {
		p.logger.ErrorErr("audit append failed", err, map[string]any{"event": ev.Name})
	}
	p.notify(ctx, webhook.Notification{
		Event:     webhook.EventReportPublished,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Name:      ev.Name,
		Mode:      string(ev.Mode),
		TLostKS:   ev.TLostKS,
		Sources:   sourceStrings(ev.Sources),
	})
	return ev, nil
}

func (p *Pipeline) run(in builder.Input) (*model.Event, error) {
	res, err := p.builder.Build(in)
	if err != nil {
		return nil, err
	}
	p.logger.Info("event assembled", map[string]any{
		"event":   res.Event.Name,
		"sources": len(res.Event.Sources),
	})

	st, err := store.Open(p.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	st.Upsert(res.Event)
	if err := st.Save(); err != nil {
		return nil, err
	}

	if err := p.writer.WriteAll(res); err != nil {
		return nil, err
	}
	if err := p.renderer.WriteEventPage(res.Event); err != nil {
		return nil, err
	}
	if err := p.renderer.WriteIndexes(st); err != nil {
		return nil, err
	}
	return res.Event, nil
}

// Rebuild re-renders every index page and every event detail page
// from the catalog, without touching telemetry or the store itself.
// The callback receives one update per rendered event page.
func (p *Pipeline) Rebuild(ctx context.Context, cb progress.Callback) (int, error) {
	if p.flight {
		rec, err := p.lockMgr.Acquire("index rebuild")
		if err != nil {
			return 0, err
		}
		defer func() {
			if err := p.lockMgr.Release(rec.HolderNonce); err != nil {
				p.logger.ErrorErr("failed to release run lock", err)
			}
		}()
	}

	st, err := store.Open(p.cfg.Paths.DataDir)
	if err != nil {
		return 0, err
	}
	tracker := progress.NewTracker("rebuild", st.Len(), cb)
	pages := 0
	for _, ev := range st.All() {
		tracker.Step(ev.Name)
		if err := p.renderer.WriteEventPage(ev); err != nil {
			// Same isolation rule as the index panels: one bad record
			// does not abort the rebuild.
			p.logger.ErrorErr("skipping event page", err, map[string]any{"event": ev.Name})
			continue
		}
		pages++
	}
	if err := p.renderer.WriteIndexes(st); err != nil {
		return pages, err
	}
	if err := p.auditLog.Append(audit.ActionRebuilt, "", "", map[string]any{
		"events": st.Len(),
		"pages":  pages,
	}); err != nil {
		p.logger.ErrorErr("audit append failed", err)
	}
	return pages, nil
}

func (p *Pipeline) recordFailure(ctx context.Context, in builder.Input, cause error) {
	name := in.Name
	if name == "" && !in.TStart.IsZero() {
		name = in.TStart.UTC().Format("20060102")
	}
	if err := p.auditLog.Append(audit.ActionFailed, name, string(in.Mode), map[string]any{
		"error": cause.Error(),
	}); err != nil {
		p.logger.ErrorErr("audit append failed", err)
	}
	p.notify(ctx, webhook.Notification{
		Event:     webhook.EventReportFailed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Name:      name,
		Mode:      string(in.Mode),
		Error:     cause.Error(),
	})
}

func (p *Pipeline) notify(ctx context.Context, note webhook.Notification) {
	if !p.notifier.Enabled() {
		return
	}
	if err := p.notifier.Send(ctx, note); err != nil {
		p.logger.ErrorErr("webhook delivery failed", err, map[string]any{"event": note.Name})
	}
}

func sourceStrings(tags []model.SourceTag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = string(tag)
	}
	return out
}
