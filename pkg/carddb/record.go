package carddb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	errs "tagscrape/pkg/errors"
)

const (
	// LabelsField holds the ordered, duplicate-free label list of a record
	LabelsField = "labels"
	// legacyLabelsField is the key older checkpoints used for labels
	legacyLabelsField = "tags"

	facesField = "card_faces"
)

// faceFields are copied out of every entry of card_faces
var faceFields = []string{"name", "mana_cost", "type_line", "oracle_text"}

// Record is a flattened card: scalar values, JSON blobs for nested values,
// and the label list under LabelsField.
type Record map[string]interface{}

// ID returns the record's id
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Labels returns the record's labels
func (r Record) Labels() []string {
	labels, _ := r[LabelsField].([]string)
	return labels
}

// HasLabel reports whether label is already attached
func (r Record) HasLabel(label string) bool {
	for _, l := range r.Labels() {
		if l == label {
			return true
		}
	}
	return false
}

// CardID extracts the identity of a raw card. Numeric ids are accepted and
// rendered as their literal text.
func CardID(card map[string]interface{}) (string, error) {
	raw, ok := card["id"]
	if !ok {
		return "", errs.New(errs.ErrorTypeParsing, 0, "card has no id")
	}

	var id string
	switch v := raw.(type) {
	case string:
		id = v
	case json.Number:
		id = v.String()
	case float64:
		id = fmt.Sprintf("%v", v)
	default:
		return "", errs.New(errs.ErrorTypeParsing, 0, "card id has unsupported type %T", raw)
	}

	if strings.TrimSpace(id) == "" {
		return "", errs.New(errs.ErrorTypeParsing, 0, "card id is empty")
	}
	return id, nil
}

// Flatten turns a raw card into a single-level Record. card_faces is split
// into face_<i>_* columns; other arrays and objects become JSON text.
func Flatten(card map[string]interface{}) (Record, error) {
	flat := make(Record, len(card)+4)

	if faces, ok := card[facesField].([]interface{}); ok {
		for i, f := range faces {
			face, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			for _, field := range faceFields {
				value, _ := face[field].(string)
				flat[fmt.Sprintf("face_%d_%s", i, field)] = value
			}
		}
	}

	for key, value := range card {
		if key == facesField {
			continue
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			blob, err := Blob(value)
			if err != nil {
				return nil, errs.New(errs.ErrorTypeParsing, 0, "failed to encode field %q: %v", key, err)
			}
			flat[key] = blob
		default:
			flat[key] = value
		}
	}

	id, err := CardID(card)
	if err != nil {
		return nil, err
	}
	flat["id"] = id

	return flat, nil
}

// Blob encodes a nested value as compact JSON text without HTML escaping
func Blob(value interface{}) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// normalizeLabels converts decoded label values back into []string and
// migrates the legacy key
func normalizeLabels(r Record) {
	if _, ok := r[LabelsField]; !ok {
		if legacy, ok := r[legacyLabelsField]; ok {
			if _, isList := legacy.([]interface{}); isList {
				r[LabelsField] = legacy
				delete(r, legacyLabelsField)
			}
		}
	}

	switch v := r[LabelsField].(type) {
	case []string:
		r[LabelsField] = dedupe(v)
	case []interface{}:
		labels := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				labels = append(labels, s)
			}
		}
		r[LabelsField] = dedupe(labels)
	case string:
		r[LabelsField] = dedupe(splitLabels(v))
	default:
		r[LabelsField] = []string{}
	}
}

func splitLabels(s string) []string {
	var labels []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
