package crm

import "sort"

// FieldEncoder shapes the custom-field block of a contact payload. The CRM
// has accepted two different encodings for the same data at different
// points in its API history, so the shape is chosen by configuration
// instead of being baked in.
type FieldEncoder interface {
	// Encode returns the payload key and the value to place under it.
	Encode(fields map[string]string) (key string, value any)
}

// FlatMapEncoder emits `"customField": {"key": "value", ...}` — the
// original encoding.
type FlatMapEncoder struct{}

func (FlatMapEncoder) Encode(fields map[string]string) (string, any) {
	return "customField", fields
}

// KeyValueListEncoder emits `"customField": [{"id": "key", "value": "value"}, ...]`
// — the newer encoding.
type KeyValueListEncoder struct{}

type keyValueEntry struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

func (KeyValueListEncoder) Encode(fields map[string]string) (string, any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]keyValueEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, keyValueEntry{ID: k, Value: fields[k]})
	}
	return "customField", entries
}

// EncoderFor maps the configured encoding name to an encoder, defaulting to
// the flat map for anything unrecognized.
func EncoderFor(name string) FieldEncoder {
	if name == "list" {
		return KeyValueListEncoder{}
	}
	return FlatMapEncoder{}
}
