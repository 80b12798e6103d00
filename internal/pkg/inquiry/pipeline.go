// Package inquiry accepts buyer/seller chat messages and applies the
// contact leak policy before anything is stored.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mandi2mandi/marketguard/app/models"
	"github.com/mandi2mandi/marketguard/app/repository"
	"github.com/mandi2mandi/marketguard/internal/pkg/contactguard"
)

var ErrEmptyMessage = errors.New("message is empty")

// VerdictSource classifies message text.
type VerdictSource interface {
	Detect(ctx context.Context, text string) contactguard.Verdict
}

// Policy maps a verdict to an action.
type Policy struct {
	BlockAt contactguard.Severity
	WarnAt  contactguard.Severity
}

// BlockOnHigh blocks phone numbers and emails and warns on app or social mentions.
var BlockOnHigh = Policy{BlockAt: contactguard.SeverityHigh, WarnAt: contactguard.SeverityMedium}

type Action string

const (
	ActionAllow Action = "allow"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
)

func (p Policy) Decide(v contactguard.Verdict) Action {
	if !v.HasContact {
		return ActionAllow
	}
	switch {
	case v.Severity.Rank() >= p.BlockAt.Rank():
		return ActionBlock
	case v.Severity.Rank() >= p.WarnAt.Rank():
		return ActionWarn
	default:
		return ActionAllow
	}
}

// Outcome is the result of submitting a message.
type Outcome struct {
	Action  Action
	Verdict contactguard.Verdict
	Notice  string
	Message *models.InquiryMessage
}

// DecisionRecorder receives every policy decision. Failures are logged only.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, action string, categories []string) error
}

type Pipeline struct {
	detector VerdictSource
	repo     repository.InquiryMessageRepository
	policy   Policy
	recorder DecisionRecorder
}

func NewPipeline(detector VerdictSource, repo repository.InquiryMessageRepository, policy Policy) *Pipeline {
	return &Pipeline{detector: detector, repo: repo, policy: policy}
}

// WithRecorder attaches a decision recorder.
func (p *Pipeline) WithRecorder(r DecisionRecorder) *Pipeline {
	p.recorder = r
	return p
}

func (p *Pipeline) record(ctx context.Context, out *Outcome) {
	if p.recorder == nil {
		return
	}
	cats := make([]string, len(out.Verdict.Categories))
	for i, c := range out.Verdict.Categories {
		cats[i] = string(c)
	}
	if err := p.recorder.RecordDecision(ctx, string(out.Action), cats); err != nil {
		log.Warnf("[Inquiry] Could not record decision: %v", err)
	}
}

// Submit classifies text and persists it unless the policy blocks it.
func (p *Pipeline) Submit(ctx context.Context, inquiryID, sender, text string) (*Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	verdict := p.detector.Detect(ctx, text)
	out := &Outcome{Action: p.policy.Decide(verdict), Verdict: verdict}
	p.record(ctx, out)

	switch out.Action {
	case ActionBlock:
		out.Notice = contactguard.BlockMessage(verdict.Categories)
		log.Infof("[Inquiry] Blocked message on inquiry=%s sender=%s categories=%v", inquiryID, sender, verdict.Categories)
		return out, nil
	case ActionWarn:
		out.Notice = contactguard.WarningMessage(verdict.Categories)
	}

	msg := &models.InquiryMessage{
		InquiryID:       inquiryID,
		Sender:          sender,
		Body:            text,
		ContactSeverity: string(verdict.Severity),
		ContactWarning:  out.Action == ActionWarn,
	}
	if err := p.repo.Create(msg); err != nil {
		return nil, fmt.Errorf("store inquiry message: %w", err)
	}
	out.Message = msg
	return out, nil
}

func (p *Pipeline) List(inquiryID string, offset, limit int) ([]models.InquiryMessage, error) {
	return p.repo.ListByInquiry(inquiryID, offset, limit)
}

// Flagged counts messages on the inquiry that were delivered with a warning.
func (p *Pipeline) Flagged(inquiryID string) (int64, error) {
	return p.repo.CountFlagged(inquiryID)
}
