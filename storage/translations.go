package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/c360studio/fdpharvest/translation"
)

// termEntry is the value stored per term.
type termEntry struct {
	Term   string            `json:"term"`
	Labels map[string]string `json:"labels"`
}

// TranslationStore is a translation.Store keeping one KV entry per term.
type TranslationStore struct {
	kv KeyValue
}

// NewTranslationStore wraps kv, usually the BucketTranslations bucket.
func NewTranslationStore(kv KeyValue) *TranslationStore {
	return &TranslationStore{kv: kv}
}

// Show implements translation.Store.
func (s *TranslationStore) Show(ctx context.Context, terms []string, langs []string) ([]translation.Translation, error) {
	var out []translation.Translation
	for _, term := range terms {
		entry, err := s.load(ctx, term)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}
		for _, lang := range langs {
			if label, ok := entry.Labels[lang]; ok {
				out = append(out, translation.Translation{Term: term, TermTranslation: label, LangCode: lang})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Term != out[j].Term {
			return out[i].Term < out[j].Term
		}
		return out[i].LangCode < out[j].LangCode
	})
	return out, nil
}

// UpdateMany implements translation.Store. Rows of the same term are
// merged into a single write; terms are written one by one.
func (s *TranslationStore) UpdateMany(ctx context.Context, _ translation.ActionContext, rows []translation.Translation) error {
	if err := translation.Validate(rows); err != nil {
		return err
	}

	var order []string
	byTerm := make(map[string]map[string]string)
	for _, r := range rows {
		labels, ok := byTerm[r.Term]
		if !ok {
			labels = make(map[string]string)
			byTerm[r.Term] = labels
			order = append(order, r.Term)
		}
		labels[r.LangCode] = r.TermTranslation
	}

	for _, term := range order {
		entry, err := s.load(ctx, term)
		if err != nil {
			return err
		}
		if entry == nil {
			entry = &termEntry{Term: term, Labels: make(map[string]string)}
		}
		for lang, label := range byTerm[term] {
			entry.Labels[lang] = label
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal translations of %s: %w", term, err)
		}
		if _, err := s.kv.Put(ctx, termKey(term), data); err != nil {
			return fmt.Errorf("store translations of %s: %w", term, err)
		}
	}
	return nil
}

func (s *TranslationStore) load(ctx context.Context, term string) (*termEntry, error) {
	kve, err := s.kv.Get(ctx, termKey(term))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get translations of %s: %w", term, err)
	}

	var entry termEntry
	if err := json.Unmarshal(kve.Value(), &entry); err != nil {
		return nil, fmt.Errorf("unmarshal translations of %s: %w", term, err)
	}
	if entry.Labels == nil {
		entry.Labels = make(map[string]string)
	}
	return &entry, nil
}
