package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/slack"
	"github.com/johnquangdev/meeting-actions/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-actions/pkg/ai"
	"github.com/johnquangdev/meeting-actions/pkg/jobcontext"
)

// failTimeout bounds the write that records a failure after the job context ended
const failTimeout = 10 * time.Second

// handle claims one meeting and runs it to completed or failed
func (p *Pipeline) handle(ctx context.Context, workerID int, meetingID uuid.UUID) {
	claimed, err := p.deps.Meetings.Claim(ctx, meetingID, p.now().Add(-p.cfg.StaleAfter))
	if err != nil {
		p.logger.Error("❌ Failed to claim meeting",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
		return
	}
	if !claimed {
		p.logger.Debug("⏭️ Meeting already claimed or no longer processing",
			zap.String("meeting_id", meetingID.String()),
		)
		return
	}

	m, err := p.deps.Meetings.FindByID(ctx, meetingID)
	if err != nil {
		p.logger.Error("❌ Claimed meeting disappeared",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
		return
	}

	jobCtx, cancel := jobcontext.Begin(ctx, jobcontext.Job{MeetingID: m.ID, WorkerID: workerID, Attempt: m.Attempts}, p.cfg.JobTimeout)
	defer cancel()

	p.logger.Info("👷 Worker claimed meeting",
		zap.Int("worker_id", workerID),
		zap.String("meeting_id", m.ID.String()),
		zap.String("source", string(m.Source)),
		zap.Int("attempt", m.Attempts),
	)

	var actions []*entities.Action
	err = jobcontext.Run(jobCtx, func(ctx context.Context) error {
		var err error
		actions, err = p.process(ctx, m)
		return err
	})
	took := jobcontext.Elapsed(jobCtx)

	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotClaimable) {
			p.logger.Warn("⚠️ Meeting left processing while it ran, discarding result",
				zap.String("meeting_id", m.ID.String()),
			)
			return
		}
		p.fail(m, err, took)
		return
	}

	p.deps.Metrics.MeetingFinished(string(entities.MeetingStatusCompleted), took)
	p.deps.Metrics.ActionsExtracted(len(actions))
	p.logger.Info("✅ Meeting processed",
		zap.String("meeting_id", m.ID.String()),
		zap.Int("actions", len(actions)),
		zap.Duration("took", took),
	)

	if err := jobcontext.Run(jobCtx, func(ctx context.Context) error {
		p.forward(ctx, m, actions)
		return nil
	}); err != nil {
		p.logger.Error("❌ Forwarding aborted",
			zap.String("meeting_id", m.ID.String()),
			zap.Error(err),
		)
	}
}

// process resolves the transcript, runs the LLM and stores the result
func (p *Pipeline) process(ctx context.Context, m *entities.Meeting) ([]*entities.Action, error) {
	transcript, err := p.resolveTranscript(ctx, m)
	if err != nil {
		return nil, err
	}
	transcript = NormalizeTranscript(transcript)
	if transcript == "" {
		return nil, errors.ErrMissingTranscript()
	}

	var objectKey *string
	if p.deps.Archive != nil {
		if key, err := p.deps.Archive.PutTranscript(ctx, m.WorkspaceID, m.ID, transcript); err != nil {
			p.logger.Warn("⚠️ Failed to archive transcript",
				zap.String("meeting_id", m.ID.String()),
				zap.Error(err),
			)
		} else {
			objectKey = &key
		}
	}
	if err := p.deps.Meetings.SaveTranscript(ctx, m.ID, transcript, objectKey); err != nil {
		return nil, errors.ErrProcessingFailed(err)
	}

	var extraction, summary string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := p.deps.LLM.ExtractActions(gctx, m.Title, transcript)
		if err != nil {
			return fmt.Errorf("action extraction failed: %w", err)
		}
		extraction = out
		return nil
	})
	g.Go(func() error {
		out, err := p.deps.LLM.Summarize(gctx, m.Title, transcript)
		if err != nil {
			return fmt.Errorf("summarization failed: %w", err)
		}
		summary = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, errors.ErrAIAnalysisFailed(err)
	}

	actions, err := ParseActions(extraction, m.ID, m.WorkspaceID)
	if err != nil {
		return nil, errors.ErrAIAnalysisFailed(err)
	}

	m.MarkCompleted(strings.TrimSpace(summary))
	usage := []*entities.UsageLog{entities.NewUsageLog(m.WorkspaceID, entities.UsageMeeting, 1, &m.ID)}
	if len(actions) > 0 {
		usage = append(usage, entities.NewUsageLog(m.WorkspaceID, entities.UsageAction, len(actions), &m.ID))
	}
	if err := p.deps.Meetings.Complete(ctx, m, actions, usage); err != nil {
		return nil, err
	}
	return actions, nil
}

// resolveTranscript prefers the inline transcript, then the transcript file,
// then speech-to-text over the recording
func (p *Pipeline) resolveTranscript(ctx context.Context, m *entities.Meeting) (string, error) {
	if has(m.RawTranscript) {
		return *m.RawTranscript, nil
	}

	if has(m.TranscriptURL) {
		text, err := p.deps.Integrations.FetchTranscript(ctx, m.WorkspaceID, m.Source, *m.TranscriptURL)
		if err == nil {
			return text, nil
		}
		if !has(m.AudioURL) {
			return "", err
		}
		p.logger.Warn("⚠️ Transcript download failed, transcribing audio instead",
			zap.String("meeting_id", m.ID.String()),
			zap.Error(err),
		)
	}

	if has(m.AudioURL) {
		if p.deps.Transcriber == nil || !p.deps.Transcriber.Configured() {
			return "", errors.ErrProcessingFailed(fmt.Errorf("speech-to-text: %w", ai.ErrNotConfigured))
		}
		audioURL, err := p.deps.Integrations.AudioURL(ctx, m.WorkspaceID, m.Source, *m.AudioURL)
		if err != nil {
			return "", err
		}
		text, err := p.deps.Transcriber.TranscribeURL(ctx, audioURL)
		if err != nil {
			return "", errors.ErrExternalAPIFailed("assemblyai", err)
		}
		return text, nil
	}

	return "", errors.ErrMissingTranscript()
}

// fail records the failure with a fresh context, the job context may be done
func (p *Pipeline) fail(m *entities.Meeting, cause error, took time.Duration) {
	reason := failureReason(cause)
	p.logger.Error("❌ Meeting processing failed",
		zap.String("meeting_id", m.ID.String()),
		zap.String("workspace_id", m.WorkspaceID.String()),
		zap.Int("attempt", m.Attempts),
		zap.Bool("retryable", jobcontext.IsRetryableError(cause)),
		zap.Error(cause),
	)

	ctx, cancel := context.WithTimeout(context.Background(), failTimeout)
	defer cancel()
	if err := p.deps.Meetings.MarkFailed(ctx, m.ID, reason); err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotClaimable) {
			p.logger.Info("⏭️ Meeting already finished elsewhere, failure dropped",
				zap.String("meeting_id", m.ID.String()),
			)
			return
		}
		p.logger.Error("❌ Failed to mark meeting failed",
			zap.String("meeting_id", m.ID.String()),
			zap.Error(err),
		)
		return
	}
	p.deps.Metrics.MeetingFinished(string(entities.MeetingStatusFailed), took)
}

func failureReason(err error) string {
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return entities.FailureReasonTimeout
	}
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if appErr.Raw != nil {
			return appErr.Message + ": " + appErr.Raw.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

// forward posts the result to Slack and files Linear issues. Failures are
// logged and counted, the meeting stays completed.
func (p *Pipeline) forward(ctx context.Context, m *entities.Meeting, actions []*entities.Action) {
	p.forwardToSlack(ctx, m, actions)
	p.forwardToLinear(ctx, m, actions)
}

func (p *Pipeline) forwardToSlack(ctx context.Context, m *entities.Meeting, actions []*entities.Action) {
	integ, ok := p.connected(ctx, m.WorkspaceID, entities.IntegrationSlack)
	if !ok || integ.StringSetting(entities.SettingChannelID) == "" {
		return
	}

	lines := make([]slack.ActionLine, 0, len(actions))
	ids := make([]uuid.UUID, 0, len(actions))
	for _, a := range actions {
		line := slack.ActionLine{Title: a.Title, Priority: string(a.Priority)}
		if a.OwnerName != nil {
			line.Owner = *a.OwnerName
		}
		if a.DueDate != nil {
			line.DueDate = a.DueDate.Format(entities.DueDateLayout)
		}
		lines = append(lines, line)
		ids = append(ids, a.ID)
	}

	var summary string
	if m.Summary != nil {
		summary = *m.Summary
	}
	text, blocks := slack.MeetingMessage(m.Title, summary, lines, p.meetingLink(m))
	ts, err := p.deps.Integrations.PostSlackMessage(ctx, m.WorkspaceID, "", text, blocks)
	if err != nil {
		p.forwardFailed("slack", m, err)
		return
	}
	if len(ids) > 0 {
		if err := p.deps.Actions.SetSlackMessage(ctx, ids, ts); err != nil {
			p.logger.Warn("⚠️ Failed to store slack message ts", zap.String("meeting_id", m.ID.String()), zap.Error(err))
		}
	}
	p.logger.Info("💬 Meeting posted to Slack",
		zap.String("meeting_id", m.ID.String()),
		zap.String("ts", ts),
	)
}

func (p *Pipeline) forwardToLinear(ctx context.Context, m *entities.Meeting, actions []*entities.Action) {
	integ, ok := p.connected(ctx, m.WorkspaceID, entities.IntegrationLinear)
	if !ok || !integ.BoolSetting(entities.SettingAutoCreate) || integ.StringSetting(entities.SettingTeamID) == "" {
		return
	}

	created := 0
	for _, a := range actions {
		if a.Type != entities.ActionTypeTask {
			continue
		}
		issue, err := p.deps.Integrations.CreateLinearIssue(ctx, m.WorkspaceID, meeting.IssueFromAction(a, "", ""))
		if err != nil {
			p.forwardFailed("linear", m, err)
			continue
		}
		if err := p.deps.Actions.SetExternalTask(ctx, a.ID, issue.ID, issue.URL); err != nil {
			p.logger.Warn("⚠️ Failed to store linear issue", zap.String("action_id", a.ID.String()), zap.Error(err))
			continue
		}
		a.ExternalTaskID, a.ExternalTaskURL = &issue.ID, &issue.URL
		created++
	}
	if created > 0 {
		p.logger.Info("📌 Linear issues created",
			zap.String("meeting_id", m.ID.String()),
			zap.Int("count", created),
		)
	}
}

func (p *Pipeline) connected(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (*entities.Integration, bool) {
	integ, err := p.deps.Integrations.Find(ctx, workspaceID, t)
	if err != nil {
		if !stdErrors.Is(err, entities.ErrIntegrationNotFound) {
			p.logger.Warn("⚠️ Integration lookup failed", zap.String("type", string(t)), zap.Error(err))
		}
		return nil, false
	}
	return integ, true
}

func (p *Pipeline) forwardFailed(destination string, m *entities.Meeting, err error) {
	p.deps.Metrics.ForwardFailed(destination)
	p.logger.Warn("⚠️ Forward failed",
		zap.String("destination", destination),
		zap.String("meeting_id", m.ID.String()),
		zap.Error(err),
	)
}

func (p *Pipeline) meetingLink(m *entities.Meeting) string {
	if p.deps.AppURL == "" {
		return ""
	}
	return strings.TrimRight(p.deps.AppURL, "/") + "/dashboard/meetings/" + m.ID.String()
}

func has(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
