// Package fields collapses the different runtime shapes a Contentful field
// can take (plain string, rich-text document, locale map, anything else)
// into a single searchable string, or an absence marker when the field has
// nothing searchable for the requested locale.
package fields

import (
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/log"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/richtext"
)

// Kind discriminates the closed union of field shapes.
type Kind int

const (
	// PlainString is a bare string value.
	PlainString Kind = iota
	// RichDocument is a rich-text tree (node-type tag plus content list).
	RichDocument
	// LocaleMap maps locale codes to strings or rich-text trees.
	LocaleMap
	// Other covers arrays, numbers, references, null: never searchable.
	Other
)

// Value is a classified field value. Exactly one payload field is meaningful
// for a given Kind.
type Value struct {
	Kind    Kind
	Str     string
	Doc     map[string]any
	Locales map[string]Value
}

// Classify inspects a decoded JSON value and tags it with its shape. Objects
// that carry both a node-type tag and a content list are rich-text
// documents; any other object is treated as a candidate locale map with its
// values classified recursively.
func Classify(raw any) Value {
	switch v := raw.(type) {
	case string:
		return Value{Kind: PlainString, Str: v}
	case map[string]any:
		if richtext.IsDocument(v) {
			return Value{Kind: RichDocument, Doc: v}
		}
		locales := make(map[string]Value, len(v))
		for code, localized := range v {
			locales[code] = Classify(localized)
		}
		return Value{Kind: LocaleMap, Locales: locales}
	default:
		return Value{Kind: Other}
	}
}

// Normalize resolves a classified value to a flat string for the given
// locale. The second return value is false when the field has nothing
// searchable: non-text shapes, locale maps without the requested locale, and
// rich-text trees that fail to render (render failures are logged, never
// propagated).
func Normalize(v Value, fieldName, locale string) (string, bool) {
	switch v.Kind {
	case PlainString:
		return v.Str, true
	case RichDocument:
		return renderDocument(v.Doc, fieldName)
	case LocaleMap:
		localized, ok := v.Locales[locale]
		if !ok {
			return "", false
		}
		switch localized.Kind {
		case PlainString:
			return localized.Str, true
		case RichDocument:
			return renderDocument(localized.Doc, fieldName)
		default:
			return "", false
		}
	default:
		return "", false
	}
}

func renderDocument(raw map[string]any, fieldName string) (string, bool) {
	doc, err := richtext.FromMap(raw)
	if err == nil {
		var text string
		if text, err = richtext.ToPlainText(doc); err == nil {
			return text, true
		}
	}
	log.ForComponent("fields").Debugf("field %s: rich text not renderable: %v", fieldName, err)
	return "", false
}
