package ckan

import (
	"context"

	"github.com/c360studio/fdpharvest/translation"
)

// TranslationStore is a translation.Store backed by the term_translation
// actions.
type TranslationStore struct {
	client *Client
}

// NewTranslationStore wraps client.
func NewTranslationStore(client *Client) *TranslationStore {
	return &TranslationStore{client: client}
}

// Show calls term_translation_show.
func (s *TranslationStore) Show(ctx context.Context, terms []string, langs []string) ([]translation.Translation, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	params := map[string]any{"terms": terms, "lang_codes": langs}
	var rows []translation.Translation
	if err := s.client.Action(ctx, "term_translation_show", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateMany calls term_translation_update_many. The action context is
// decided by the API key the client was created with; actx is not sent.
func (s *TranslationStore) UpdateMany(ctx context.Context, _ translation.ActionContext, rows []translation.Translation) error {
	if len(rows) == 0 {
		return nil
	}
	if err := translation.Validate(rows); err != nil {
		return err
	}
	return s.client.Action(ctx, "term_translation_update_many", map[string]any{"data": rows}, nil)
}
