// Package search pages entries out of a Contentful space and applies the
// authoritative case-sensitive substring test to every searchable field.
//
// The remote API only offers a case-insensitive full-text query, so that
// query is used purely as a coarse pre-filter to shrink the candidate set;
// every returned entry is re-checked locally with strings.Index before it
// can produce a match.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shanonplace/contentful-find-case-sensitive/pkg/config"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/contentful"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/fields"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/log"
)

const (
	// DefaultPageSize is the number of entries requested per page, the
	// maximum the Contentful API allows.
	DefaultPageSize = 1000

	// DefaultLocale is used when the caller does not name a locale.
	DefaultLocale = "en-US"

	// includeDepth controls how deep linked entries are resolved in each
	// page response.
	includeDepth = 2
)

// EntryLister is the slice of the Contentful client the driver needs.
type EntryLister interface {
	ListEntries(ctx context.Context, q contentful.Query) (*contentful.EntriesPage, error)
}

// MatchRecord is one confirmed case-sensitive match. At most one record is
// produced per entry: the first matching field wins.
type MatchRecord struct {
	EntryID       string `json:"entryId"`
	ContentTypeID string `json:"contentType"`
	FieldName     string `json:"field"`
	Locale        string `json:"locale"`
	EntryLink     string `json:"link"`
	Snippet       string `json:"snippet"`
}

// Service drives the paginated search.
type Service struct {
	client      EntryLister
	appHost     string
	space       string
	environment string
	pageSize    int
	log         *log.Logger
}

// NewService builds a search driver. pageSize <= 0 selects DefaultPageSize.
func NewService(client EntryLister, cfg *config.Config, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		client:      client,
		appHost:     cfg.AppHost,
		space:       cfg.SpaceID,
		environment: cfg.Environment,
		pageSize:    pageSize,
		log:         log.ForComponent("search"),
	}
}

// Search pages through the space and returns every entry containing term as
// an exact, case-sensitive substring of at least one field, in API order.
// Failures on individual entries are logged and skipped; a failed page
// request aborts the run.
func (s *Service) Search(ctx context.Context, term, locale string) ([]MatchRecord, error) {
	if term == "" {
		return nil, fmt.Errorf("search term cannot be empty")
	}
	if locale == "" {
		locale = DefaultLocale
	}

	var matches []MatchRecord
	skip := 0
	for {
		page, err := s.client.ListEntries(ctx, contentful.Query{
			Text:    term,
			Locale:  locale,
			Limit:   s.pageSize,
			Skip:    skip,
			Include: includeDepth,
		})
		if err != nil {
			return nil, fmt.Errorf("listing entries at skip %d: %w", skip, err)
		}

		s.log.Debugf("page fetched: skip=%d items=%d total=%d", skip, len(page.Items), page.Total)

		for _, entry := range page.Items {
			record, err := s.matchEntry(entry, term, locale)
			if err != nil {
				s.log.Warnf("skipping entry %s: %v", entry.Sys.ID, err)
				continue
			}
			if record != nil {
				s.log.Debugf("match found: entry=%s field=%s", record.EntryID, record.FieldName)
				matches = append(matches, *record)
			}
		}

		skip += s.pageSize
		if skip >= page.Total {
			break
		}
	}

	return matches, nil
}

// matchEntry examines one entry's fields in sorted name order and returns a
// record for the first field containing term, or nil when nothing matches.
func (s *Service) matchEntry(entry contentful.Entry, term, locale string) (*MatchRecord, error) {
	if len(entry.Fields) == 0 {
		return nil, nil
	}

	var fieldValues map[string]any
	if err := json.Unmarshal(entry.Fields, &fieldValues); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}

	// Sorted so the winning field is deterministic; JSON object order is
	// not preserved by the decoder.
	names := make([]string, 0, len(fieldValues))
	for name := range fieldValues {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		text, ok := fields.Normalize(fields.Classify(fieldValues[name]), name, locale)
		if !ok {
			continue
		}

		idx := strings.Index(text, term)
		if idx < 0 {
			continue
		}

		return &MatchRecord{
			EntryID:       entry.Sys.ID,
			ContentTypeID: entry.ContentTypeID(),
			FieldName:     name,
			Locale:        locale,
			EntryLink:     s.entryLink(entry.Sys.ID),
			Snippet:       Snippet(text, term, idx),
		}, nil
	}

	return nil, nil
}

func (s *Service) entryLink(entryID string) string {
	return fmt.Sprintf("https://%s/spaces/%s/environments/%s/entries/%s", s.appHost, s.space, s.environment, entryID)
}
