package tree

import (
	"time"

	"github.com/convexo/faqtree/internal/extract"
	"github.com/convexo/faqtree/internal/model"
)

// Assembler builds dialogue-tree documents from extraction results.
type Assembler struct {
	// now supplies the generation timestamp; replaceable in tests.
	now func() time.Time
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithClock sets the timestamp source. Used by tests to pin generatedAt.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAssembler creates an Assembler with the given options.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assemble merges the accumulated FAQ and navigation sets into a single
// dialogue-tree document.
//
// The start node receives one option per FAQ record in discovery order,
// each option targeting the record's content-derived ID; every FAQ record
// becomes a node under that ID with a single "Back" option pointing at the
// start node. Because options and nodes are added in the same pass, every
// option target exists in the node mapping by construction.
//
// Resulting metadata always satisfies totalNodes == faqNodes + 1 and
// uniqueIntents <= faqNodes.
func (a *Assembler) Assemble(faqs *model.RecordSet[model.FAQRecord], nav *model.RecordSet[model.NavigationRecord]) *model.TreeDocument {
	generatedAt := extract.Timestamp(a.now())

	start := &model.Node{
		Type:    model.TypeSystem,
		Message: model.EntryMessage,
		Options: make([]model.Option, 0),
		UI:      model.DefaultUIHints(),
	}

	nodes := map[string]*model.Node{
		model.StartNodeID: start,
	}

	for _, faq := range faqs.Values() {
		start.Options = append(start.Options, model.Option{
			Text: faq.Question,
			Next: faq.ID,
		})

		nodes[faq.ID] = &model.Node{
			ID:          faq.ID,
			Type:        faq.Type,
			Question:    faq.Question,
			Answer:      faq.Answer,
			Intent:      faq.Intent,
			Confidence:  &faq.Confidence,
			Source:      &faq.Source,
			LastUpdated: faq.LastUpdated,
			Version:     faq.Version,
			Options: []model.Option{
				{Text: model.BackOptionText, Next: model.StartNodeID},
			},
			UI: faq.UI,
		}
	}

	return &model.TreeDocument{
		Contract:    model.DefaultContract(),
		Version:     model.TreeVersion,
		Type:        model.TreeType,
		GeneratedAt: generatedAt,
		Metadata: model.Metadata{
			TotalNodes:    len(nodes),
			FAQNodes:      faqs.Len(),
			NavItems:      nav.Len(),
			UniqueIntents: faqs.Len(),
			LastValidated: generatedAt,
		},
		Conversation: model.Conversation{
			EntryMessage: model.EntryMessage,
			Fallback: model.Fallback{
				Message:            model.FallbackMessage,
				Strategy:           model.FallbackStrategy,
				FallbackConfidence: model.FallbackConfidence,
				Navigation:         nav.Values(),
			},
		},
		Nodes: nodes,
	}
}
