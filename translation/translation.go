// Package translation stores human-readable labels for controlled-vocabulary
// URIs, keyed by term and language.
package translation

import (
	"context"
	"errors"
)

// Translation is one label of a term in one language.
type Translation struct {
	Term            string `json:"term"`
	TermTranslation string `json:"term_translation"`
	LangCode        string `json:"lang_code"`
}

// ActionContext carries the privileges of a write. Label resolution writes
// as a trusted internal caller and lets the store batch its commit.
type ActionContext struct {
	IgnoreAuth  bool `json:"ignore_auth"`
	DeferCommit bool `json:"defer_commit"`
}

// Store is the translation table of the catalog.
type Store interface {
	// Show returns the known translations of terms in any of langs.
	Show(ctx context.Context, terms []string, langs []string) ([]Translation, error)

	// UpdateMany upserts translations in one batch.
	UpdateMany(ctx context.Context, actx ActionContext, translations []Translation) error
}

// ErrEmptyTranslation is returned for rows missing a term, label or language.
var ErrEmptyTranslation = errors.New("translation requires term, term_translation and lang_code")

// Validate checks that every row is complete.
func Validate(translations []Translation) error {
	for _, t := range translations {
		if t.Term == "" || t.TermTranslation == "" || t.LangCode == "" {
			return ErrEmptyTranslation
		}
	}
	return nil
}

// KnownTerms returns the distinct terms present in rows.
func KnownTerms(rows []Translation) map[string]struct{} {
	known := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		known[r.Term] = struct{}{}
	}
	return known
}

// FilterLanguages keeps only rows whose language is in langs.
func FilterLanguages(rows []Translation, langs []string) []Translation {
	allowed := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		allowed[l] = struct{}{}
	}
	var out []Translation
	for _, r := range rows {
		if _, ok := allowed[r.LangCode]; ok {
			out = append(out, r)
		}
	}
	return out
}
