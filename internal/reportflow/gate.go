package reportflow

import (
	"context"

	"childguard/backend/internal/laws"
)

// DefaultAcknowledgements are shown with every summary. They are
// informational and cannot be individually accepted or declined.
var DefaultAcknowledgements = []string{
	"I am submitting this report in good faith and the information is true to the best of my knowledge.",
	"I understand that this report will be handled confidentially by the proper authorities.",
	"I understand that filing a false report may have legal consequences.",
}

// Summary is what the user reviews before the report is sent.
type Summary struct {
	Draft            Draft
	Statutes         []laws.Statute
	Acknowledgements []string
}

// Confirmer shows a summary and returns the user's decision.
type Confirmer interface {
	Confirm(ctx context.Context, summary Summary) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, summary Summary) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, summary Summary) (bool, error) { return f(ctx, summary) }

// Gate blocks submission until the user approves the summary.
type Gate struct {
	Laws             *laws.Table
	Confirmer        Confirmer
	Acknowledgements []string
}

func NewGate(table *laws.Table, confirmer Confirmer) *Gate {
	if table == nil {
		table = laws.Default()
	}
	return &Gate{
		Laws:             table,
		Confirmer:        confirmer,
		Acknowledgements: DefaultAcknowledgements,
	}
}

// Review builds the summary for a working copy.
func (g *Gate) Review(work Draft) Summary {
	return Summary{
		Draft:            work.Clone(),
		Statutes:         g.Laws.Lookup(work.NatureOfAbuse),
		Acknowledgements: append([]string(nil), g.Acknowledgements...),
	}
}

// Confirm returns true only when the user approves.
func (g *Gate) Confirm(ctx context.Context, work Draft) (bool, error) {
	return g.Confirmer.Confirm(ctx, g.Review(work))
}
