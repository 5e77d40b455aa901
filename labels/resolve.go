package labels

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/c360studio/fdpharvest/translation"
)

// OutcomeKind tells what ResolveLabels did.
type OutcomeKind int

const (
	// NoWorkNeeded: every term was already known to the store.
	NoWorkNeeded OutcomeKind = iota
	// NothingUsable: unknown terms existed but produced no usable label.
	NothingUsable
	// Resolved: translations were written.
	Resolved
)

// Outcome is the result of ResolveLabels.
type Outcome struct {
	Kind  OutcomeKind
	Count int
}

// Code returns -1 for NoWorkNeeded, 0 for NothingUsable and the number of
// translations written for Resolved.
func (o Outcome) Code() int {
	switch o.Kind {
	case NoWorkNeeded:
		return -1
	case NothingUsable:
		return 0
	default:
		return o.Count
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case NoWorkNeeded:
		return "no work needed"
	case NothingUsable:
		return "nothing usable"
	default:
		return "resolved " + strconv.Itoa(o.Count)
	}
}

// Labeler finds the vocabulary URIs of a package that the translation store
// does not know yet and stores their labels.
type Labeler struct {
	store    translation.Store
	resolver *Resolver
	logger   *slog.Logger
}

// NewLabeler creates a labeler writing to store.
func NewLabeler(store translation.Store, resolver *Resolver, logger *slog.Logger) *Labeler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Labeler{store: store, resolver: resolver, logger: logger}
}

// UnresolvedTerms returns the terms the store has no translation for in any
// allowed language, using a single lookup.
func (l *Labeler) UnresolvedTerms(ctx context.Context, terms []string) ([]string, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	rows, err := l.store.Show(ctx, terms, l.resolver.Languages())
	if err != nil {
		return nil, fmt.Errorf("show translations: %w", err)
	}
	known := translation.KnownTerms(rows)

	var unresolved []string
	for _, t := range terms {
		if _, ok := known[t]; !ok {
			unresolved = append(unresolved, t)
		}
	}
	return unresolved, nil
}

// ResolveLabels resolves the unknown vocabulary terms of pkg and writes the
// resulting translations in one privileged, deferred-commit batch.
func (l *Labeler) ResolveLabels(ctx context.Context, pkg map[string]any) (Outcome, error) {
	unresolved, err := l.UnresolvedTerms(ctx, TermsInPackage(pkg))
	if err != nil {
		return Outcome{}, err
	}
	if len(unresolved) == 0 {
		return Outcome{Kind: NoWorkNeeded}, nil
	}

	var list []translation.Translation
	for _, term := range unresolved {
		list = append(list, l.resolver.Resolve(ctx, term)...)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	filtered := translation.FilterLanguages(list, l.resolver.Languages())
	if len(filtered) == 0 {
		return Outcome{Kind: NothingUsable}, nil
	}

	actx := translation.ActionContext{IgnoreAuth: true, DeferCommit: true}
	if err := l.store.UpdateMany(ctx, actx, filtered); err != nil {
		return Outcome{}, fmt.Errorf("update translations: %w", err)
	}

	l.logger.Debug("Stored labels", "terms", len(unresolved), "translations", len(filtered))
	return Outcome{Kind: Resolved, Count: len(filtered)}, nil
}
