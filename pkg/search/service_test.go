package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shanonplace/contentful-find-case-sensitive/pkg/config"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/contentful"
)

// fakeLister serves entries out of a slice, one page per call, the way the
// entries collection endpoint behaves.
type fakeLister struct {
	entries  []contentful.Entry
	requests []contentful.Query
	err      error
}

func (f *fakeLister) ListEntries(ctx context.Context, q contentful.Query) (*contentful.EntriesPage, error) {
	f.requests = append(f.requests, q)
	if f.err != nil {
		return nil, f.err
	}

	start := q.Skip
	if start > len(f.entries) {
		start = len(f.entries)
	}
	end := start + q.Limit
	if end > len(f.entries) {
		end = len(f.entries)
	}

	return &contentful.EntriesPage{
		Total: len(f.entries),
		Skip:  q.Skip,
		Limit: q.Limit,
		Items: f.entries[start:end],
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		SpaceID:     "space1",
		AccessToken: "tok",
		Environment: "master",
		AppHost:     "app.contentful.com",
	}
}

func entry(id, contentType, fieldsJSON string) contentful.Entry {
	e := contentful.Entry{Fields: json.RawMessage(fieldsJSON)}
	e.Sys.ID = id
	e.Sys.ContentType.Sys.ID = contentType
	return e
}

func TestSearchExactCaseSensitiveMatch(t *testing.T) {
	lister := &fakeLister{entries: []contentful.Entry{
		entry("e1", "product", `{"title": "The ProductName Pro"}`),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "ProductName", "en-US")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.EntryID != "e1" || m.ContentTypeID != "product" || m.FieldName != "title" {
		t.Errorf("unexpected match record: %+v", m)
	}
	if m.Snippet != "The [ProductName] Pro" {
		t.Errorf("snippet: expected %q, got %q", "The [ProductName] Pro", m.Snippet)
	}
	if m.EntryLink != "https://app.contentful.com/spaces/space1/environments/master/entries/e1" {
		t.Errorf("unexpected entry link %q", m.EntryLink)
	}
}

func TestSearchRejectsCaseInsensitiveCandidates(t *testing.T) {
	// The coarse API pre-filter returns this entry for "Widget", but the
	// authoritative local test must reject the lowercase field.
	lister := &fakeLister{entries: []contentful.Entry{
		entry("e1", "product", `{"title": "widget"}`),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Widget", "en-US")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestSearchFirstMatchingFieldWins(t *testing.T) {
	lister := &fakeLister{entries: []contentful.Entry{
		entry("e1", "page", `{"title": "Widget title", "body": "Widget body", "slug": "Widget-slug"}`),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Widget", "en-US")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected exactly one record per entry, got %d", len(matches))
	}
	// Fields are visited in sorted name order, so "body" wins.
	if matches[0].FieldName != "body" {
		t.Errorf("expected field body to win, got %s", matches[0].FieldName)
	}
}

func TestSearchLocaleMapRequiresRequestedLocale(t *testing.T) {
	lister := &fakeLister{entries: []contentful.Entry{
		entry("e1", "page", `{"greeting": {"en-US": "Hallo"}}`),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Hallo", "de-DE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("locale absent from map must not match, got %d matches", len(matches))
	}
}

func TestSearchRichTextField(t *testing.T) {
	doc := `{"nodeType": "document", "content": [
		{"nodeType": "paragraph", "content": [{"nodeType": "text", "value": "Deep inside the Widget body"}]}
	]}`
	lister := &fakeLister{entries: []contentful.Entry{
		entry("e1", "article", fmt.Sprintf(`{"body": %s}`, doc)),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Widget", "en-US")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if !strings.Contains(matches[0].Snippet, "[Widget]") {
		t.Errorf("unexpected snippet %q", matches[0].Snippet)
	}
}

func TestSearchRenderFailureLeavesOtherFieldsSearchable(t *testing.T) {
	// "aBody" renders with an error (child without node type); the later
	// "title" field must still be examined.
	broken := `{"nodeType": "document", "content": [{"value": "orphan"}]}`
	lister := &fakeLister{entries: []contentful.Entry{
		entry("e1", "article", fmt.Sprintf(`{"aBody": %s, "title": "Widget works"}`, broken)),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Widget", "en-US")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].FieldName != "title" {
		t.Errorf("expected title to match after render failure, got %s", matches[0].FieldName)
	}
}

func TestSearchMalformedEntrySkipped(t *testing.T) {
	lister := &fakeLister{entries: []contentful.Entry{
		entry("bad", "page", `["not", "an", "object"]`),
		entry("good", "page", `{"title": "Widget here"}`),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Widget", "en-US")
	if err != nil {
		t.Fatalf("a malformed entry must not abort the run: %v", err)
	}
	if len(matches) != 1 || matches[0].EntryID != "good" {
		t.Errorf("expected only the well-formed entry to match, got %+v", matches)
	}
}

func TestSearchPagination(t *testing.T) {
	var entries []contentful.Entry
	for i := 0; i < 250; i++ {
		entries = append(entries, entry(
			fmt.Sprintf("e%03d", i),
			"page",
			fmt.Sprintf(`{"title": "Widget number %03d"}`, i),
		))
	}
	lister := &fakeLister{entries: entries}
	svc := NewService(lister, testConfig(), 100)

	matches, err := svc.Search(context.Background(), "Widget", "en-US")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// ceil(250/100) pages.
	if len(lister.requests) != 3 {
		t.Errorf("expected 3 page requests, got %d", len(lister.requests))
	}
	for i, q := range lister.requests {
		if q.Skip != i*100 {
			t.Errorf("request %d: expected skip %d, got %d", i, i*100, q.Skip)
		}
		if q.Text != "Widget" {
			t.Errorf("request %d: coarse query not forwarded, got %q", i, q.Text)
		}
	}
	if len(matches) != 250 {
		t.Errorf("expected matches from every page, got %d", len(matches))
	}
}

func TestSearchEmptySpaceStillIssuesOneRequest(t *testing.T) {
	lister := &fakeLister{}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Widget", "en-US")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(lister.requests) != 1 {
		t.Errorf("expected exactly one request against an empty space, got %d", len(lister.requests))
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestSearchTransportErrorIsFatal(t *testing.T) {
	cause := errors.New("connection refused")
	lister := &fakeLister{err: cause}
	svc := NewService(lister, testConfig(), 0)

	_, err := svc.Search(context.Background(), "Widget", "en-US")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("originating cause must be preserved: %v", err)
	}
}

func TestSearchEmptyTermRejected(t *testing.T) {
	lister := &fakeLister{}
	svc := NewService(lister, testConfig(), 0)

	if _, err := svc.Search(context.Background(), "", "en-US"); err == nil {
		t.Fatal("expected error for empty term")
	}
	if len(lister.requests) != 0 {
		t.Error("no request may be issued for an empty term")
	}
}

func TestSearchDefaultsLocale(t *testing.T) {
	lister := &fakeLister{entries: []contentful.Entry{
		entry("e1", "page", `{"title": {"en-US": "Widget localized"}}`),
	}}
	svc := NewService(lister, testConfig(), 0)

	matches, err := svc.Search(context.Background(), "Widget", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match with default locale, got %d", len(matches))
	}
	if matches[0].Locale != DefaultLocale {
		t.Errorf("expected locale %q, got %q", DefaultLocale, matches[0].Locale)
	}
	if lister.requests[0].Locale != DefaultLocale {
		t.Errorf("default locale must reach the API query, got %q", lister.requests[0].Locale)
	}
}
