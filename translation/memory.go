package translation

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps translations in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	terms map[string]map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{terms: make(map[string]map[string]string)}
}

// Show implements Store. Rows are sorted by term, then language.
func (s *MemoryStore) Show(_ context.Context, terms []string, langs []string) ([]Translation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Translation
	for _, term := range terms {
		byLang, ok := s.terms[term]
		if !ok {
			continue
		}
		for _, lang := range langs {
			if label, ok := byLang[lang]; ok {
				out = append(out, Translation{Term: term, TermTranslation: label, LangCode: lang})
			}
		}
	}
	sortRows(out)
	return out, nil
}

// UpdateMany implements Store.
func (s *MemoryStore) UpdateMany(_ context.Context, _ ActionContext, translations []Translation) error {
	if err := Validate(translations); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range translations {
		byLang, ok := s.terms[t.Term]
		if !ok {
			byLang = make(map[string]string)
			s.terms[t.Term] = byLang
		}
		byLang[t.LangCode] = t.TermTranslation
	}
	return nil
}

// Len returns the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, byLang := range s.terms {
		n += len(byLang)
	}
	return n
}

func sortRows(rows []Translation) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Term != rows[j].Term {
			return rows[i].Term < rows[j].Term
		}
		return rows[i].LangCode < rows[j].LangCode
	})
}
