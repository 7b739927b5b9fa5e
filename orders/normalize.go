package orders

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The upstream result-entry system has historically written some fields
// under snake_case keys while newer writers use camelCase. Normalization
// happens exactly once, when raw documents are decoded into typed
// records; every derivation downstream reads normalized fields only.
// When both spellings are present the camelCase value wins.

// NormalizeKeys rewrites snake_case keys to their camelCase equivalent,
// recursively, preferring an existing camelCase key over its alias.
func NormalizeKeys(doc map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(doc))
	for key, value := range doc {
		normalized[key] = normalizeValue(value)
	}
	for key, value := range normalized {
		if !strings.Contains(key, "_") || key == "_id" {
			continue
		}
		camel := snakeToCamel(key)
		if _, exists := normalized[camel]; !exists {
			normalized[camel] = value
		}
		delete(normalized, key)
	}
	return normalized
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return NormalizeKeys(v)
	case primitive.M:
		return NormalizeKeys(map[string]interface{}(v))
	case []interface{}:
		for i := range v {
			v[i] = normalizeValue(v[i])
		}
		return v
	case primitive.A:
		for i := range v {
			v[i] = normalizeValue(v[i])
		}
		return v
	default:
		return value
	}
}

func snakeToCamel(key string) string {
	parts := strings.Split(key, "_")
	camel := parts[0]
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		camel += strings.ToUpper(part[:1]) + part[1:]
	}
	return camel
}

// DecodeOrders decodes raw backend documents into typed orders after key
// normalization.
func DecodeOrders(raw []map[string]interface{}) ([]Order, error) {
	orders := make([]Order, 0, len(raw))
	for _, doc := range raw {
		order := Order{}
		if err := decodeDocument(doc, &order); err != nil {
			return nil, fmt.Errorf("error decoding order document: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// DecodeSamples decodes raw backend documents into typed samples after
// key normalization.
func DecodeSamples(raw []map[string]interface{}) ([]Sample, error) {
	samples := make([]Sample, 0, len(raw))
	for _, doc := range raw {
		sample := Sample{}
		if err := decodeDocument(doc, &sample); err != nil {
			return nil, fmt.Errorf("error decoding sample document: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func decodeDocument(doc map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timestampDecodeHook,
		),
		Result: target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(NormalizeKeys(doc))
}

// timestampDecodeHook accepts the timestamp encodings the backend is
// known to produce: native mongo datetimes and RFC 3339 strings.
func timestampDecodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	switch v := data.(type) {
	case primitive.DateTime:
		return v.Time(), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("unparseable timestamp %q: %w", v, err)
		}
		return parsed, nil
	default:
		return data, nil
	}
}
