// Package pipeline turns meeting transcripts into summaries and action items.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	slackgo "github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-actions/pkg/config"
)

// LLM extracts actions and summaries from transcripts
type LLM interface {
	ExtractActions(ctx context.Context, title, transcript string) (string, error)
	Summarize(ctx context.Context, title, transcript string) (string, error)
}

// Transcriber converts recorded audio to text
type Transcriber interface {
	Configured() bool
	TranscribeURL(ctx context.Context, audioURL string) (string, error)
}

// Archiver keeps a copy of every resolved transcript
type Archiver interface {
	PutTranscript(ctx context.Context, workspaceID, meetingID uuid.UUID, transcript string) (string, error)
}

// Integrations is the integration surface used to fetch inputs and forward results
type Integrations interface {
	Find(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (*entities.Integration, error)
	FetchTranscript(ctx context.Context, workspaceID uuid.UUID, source entities.MeetingSource, url string) (string, error)
	AudioURL(ctx context.Context, workspaceID uuid.UUID, source entities.MeetingSource, url string) (string, error)
	PostSlackMessage(ctx context.Context, workspaceID uuid.UUID, channel, text string, blocks []slackgo.Block) (string, error)
	CreateLinearIssue(ctx context.Context, workspaceID uuid.UUID, in linear.IssueInput) (*linear.Issue, error)
}

// Deps are the collaborators of the pipeline. Transcriber, Archive and
// Metrics are optional.
type Deps struct {
	Meetings     repositories.MeetingRepository
	Actions      repositories.ActionRepository
	Integrations Integrations
	LLM          LLM
	Transcriber  Transcriber
	Archive      Archiver
	Metrics      *metrics.Metrics
	AppURL       string
}

// Pipeline processes queued meetings with a pool of workers
type Pipeline struct {
	cfg  config.PipelineConfig
	deps Deps

	queue   chan uuid.UUID
	pending sync.Map

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger *zap.Logger
	now    func() time.Time
}

// New creates a pipeline. Call Start to run the workers.
func New(cfg config.PipelineConfig, deps Deps, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 15 * time.Minute
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		queue:  make(chan uuid.UUID, cfg.QueueSize),
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue schedules a meeting for processing without blocking. A meeting that
// is already queued is not queued twice.
func (p *Pipeline) Enqueue(meetingID uuid.UUID) error {
	if _, queued := p.pending.LoadOrStore(meetingID, struct{}{}); queued {
		return nil
	}
	select {
	case p.queue <- meetingID:
		p.deps.Metrics.SetQueueDepth(len(p.queue))
		return nil
	default:
		p.pending.Delete(meetingID)
		return errors.ErrQueueFull()
	}
}

// Start runs the workers and the sweeper until Stop is called or ctx ends
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("pipeline already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})

	p.logger.Info("🚀 Starting meeting pipeline",
		zap.Int("worker_count", p.cfg.Workers),
		zap.Int("queue_size", p.cfg.QueueSize),
	)

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.wg.Add(1)
	go p.sweeper(ctx)

	return nil
}

// Stop signals the workers and waits for in-flight meetings to finish.
// Meetings still queued stay processing and are picked up by the next sweep.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return fmt.Errorf("pipeline not running")
	}

	p.logger.Info("🛑 Stopping meeting pipeline...")
	close(p.stopCh)
	p.wg.Wait()
	p.running = false
	p.logger.Info("✅ Meeting pipeline stopped")
	return nil
}

func (p *Pipeline) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	p.logger.Debug("👷 Worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-p.stopCh:
			p.logger.Debug("👷 Worker stopping", zap.Int("worker_id", workerID))
			return
		case <-ctx.Done():
			return
		case id := <-p.queue:
			p.pending.Delete(id)
			p.deps.Metrics.SetQueueDepth(len(p.queue))
			p.handle(ctx, workerID, id)
		}
	}
}

func (p *Pipeline) sweeper(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.SweepEvery)
	defer ticker.Stop()

	// Recover whatever a previous process left behind
	p.sweep(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

// sweep fails meetings that ran out of attempts and re-enqueues meetings that
// were never claimed or whose worker disappeared
func (p *Pipeline) sweep(ctx context.Context) {
	now := p.now()
	staleBefore := now.Add(-p.cfg.StaleAfter)

	failed, err := p.deps.Meetings.FailExhausted(ctx, p.cfg.MaxAttempts, staleBefore, entities.FailureReasonTimeout)
	if err != nil {
		p.logger.Error("❌ Failed to fail exhausted meetings", zap.Error(err))
	} else if failed > 0 {
		p.logger.Warn("🧹 Failed meetings that ran out of attempts",
			zap.Int64("count", failed),
			zap.Int("max_attempts", p.cfg.MaxAttempts),
		)
	}

	meetings, err := p.deps.Meetings.ListRecoverable(ctx, now.Add(-p.cfg.SweepEvery), staleBefore, p.cfg.QueueSize)
	if err != nil {
		p.logger.Error("❌ Failed to list recoverable meetings", zap.Error(err))
		return
	}
	for i, m := range meetings {
		if err := p.Enqueue(m.ID); err != nil {
			p.logger.Warn("⚠️ Queue full, deferring recovery to the next sweep",
				zap.Int("remaining", len(meetings)-i),
			)
			return
		}
		p.logger.Info("🔁 Re-enqueued meeting",
			zap.String("meeting_id", m.ID.String()),
			zap.Int("attempts", m.Attempts),
		)
	}
}
