// Package respond assembles the heterogeneous pieces of a turn into one
// immutable response record.
package respond

import (
	"time"

	"github.com/hearthplan/renovation-assistant/internal/model"
	"github.com/hearthplan/renovation-assistant/internal/suggest"
)

// FallbackText is returned when text generation produced nothing. The turn
// still yields a valid record.
const FallbackText = "Sorry, I couldn't put together a full answer just now. Could you try rephrasing, or pick one of the suggestions below?"

// pdfPrereqText is the conversational reply for a PDF export request with
// no plan to export yet. Offering to create the prerequisite, never a
// "missing field" error and never a claim that PDFs are unsupported.
const pdfPrereqText = "Happy to put together a printable PDF for you. We haven't built a step-by-step plan yet, though, so there's nothing to export. Want me to create a DIY plan for your project first?"

// Input carries everything the assembler combines for one turn.
type Input struct {
	Text       string
	Intent     model.IntentResult
	Facts      model.FactMap
	Actions    []model.SuggestedAction
	Questions  []model.SuggestedQuestion
	Enrichment []model.Enrichment
	Mode       model.Mode
	Now        time.Time
}

// Assembler produces response records. It is the last line of defense
// against UI clutter, so caps are applied here again even when upstream
// already capped.
type Assembler struct {
	actionCap   int
	questionCap int
}

// New creates an assembler with the default caps.
func New() *Assembler {
	return &Assembler{actionCap: suggest.ActionCap, questionCap: suggest.QuestionCap}
}

// Assemble builds the immutable record for a turn. Identical inputs yield
// identical records: the only timestamp is the explicit Now field.
func (a *Assembler) Assemble(in Input) model.ResponseRecord {
	text := in.Text
	if in.Intent.Intent == model.IntentPDFRequest && !in.Facts.Has(model.FactDIYPlan) {
		text = pdfPrereqText
	}
	if text == "" {
		text = FallbackText
	}

	actions := in.Actions
	if len(actions) > a.actionCap {
		actions = actions[:a.actionCap]
	}
	questions := in.Questions
	if len(questions) > a.questionCap {
		questions = questions[:a.questionCap]
	}

	// Chat mode carries no enrichment, whatever upstream computed.
	enrichment := in.Enrichment
	if in.Mode != model.ModeAgent {
		enrichment = nil
	}

	return model.ResponseRecord{
		Text:               text,
		SuggestedActions:   actions,
		SuggestedQuestions: questions,
		Enrichment:         enrichment,
		Mode:               in.Mode,
		Intent:             in.Intent.Intent,
		Confidence:         in.Intent.Confidence,
		CreatedAt:          in.Now,
	}
}
