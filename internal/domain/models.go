// Package domain defines the persistence model for classification history and
// the pure aggregation computed over it. HistoryRecord is mapped with GORM for
// the SQLite store and shared verbatim with the MongoDB store.
package domain

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"
)

// Field names with fixed meaning inside a history document.
const (
	FieldMongoID    = "_id"
	FieldID         = "id"
	FieldCreatedAt  = "createdAt"
	FieldText       = "text"
	FieldMessage    = "message"
	FieldPrediction = "prediction"
	FieldConfidence = "confidence"
)

// reservedFields are assigned by the store and never taken from the client.
var reservedFields = [...]string{FieldMongoID, FieldID, FieldCreatedAt}

// HistoryRecord is one classification event.
//
// Fields holds the client-supplied document verbatim (minus reserved keys);
// Text, Prediction and Confidence are typed projections of it, kept as
// columns so they can be indexed and read without decoding the document.
//
// Fields:
//   - ID: 24-hex ObjectID assigned at insert, immutable.
//   - Text: the submitted message ("text", falling back to "message").
//   - Prediction: classifier label, e.g. "spam" or "ham".
//   - Confidence: classifier score, stored as given (no clamping).
//   - Fields: the full document.
//   - CreatedAt: server clock at insert; the only sort key.
type HistoryRecord struct {
	ID         string            `gorm:"type:char(24);primaryKey"`
	Text       *string           `gorm:"type:text"`
	Prediction *string           `gorm:"type:varchar(64);index:idx_history_prediction"`
	Confidence *float64          `gorm:"type:real"`
	Fields     datatypes.JSONMap `gorm:"column:document;type:json;not null"`
	CreatedAt  time.Time         `gorm:"not null;index:idx_history_created"`
}

// TableName returns the database table name for HistoryRecord.
func (HistoryRecord) TableName() string { return "history" }

// NewHistoryRecord builds a record from a client document, assigning a fresh
// identifier and the given creation time. The input map is not modified.
func NewHistoryRecord(fields map[string]any, now time.Time) HistoryRecord {
	return buildRecord(NewID(), fields, now)
}

// RestoreHistoryRecord rebuilds a record read back from a document store,
// keeping its stored identifier and creation time.
func RestoreHistoryRecord(id string, fields map[string]any, createdAt time.Time) HistoryRecord {
	return buildRecord(id, fields, createdAt)
}

func buildRecord(id string, fields map[string]any, createdAt time.Time) HistoryRecord {
	doc := make(datatypes.JSONMap, len(fields))
	for k, v := range fields {
		doc[k] = v
	}
	for _, k := range reservedFields {
		delete(doc, k)
	}

	rec := HistoryRecord{
		ID:        id,
		Fields:    doc,
		CreatedAt: createdAt.UTC(),
	}
	if s, ok := firstString(doc, FieldText, FieldMessage); ok {
		rec.Text = &s
	}
	if s, ok := doc[FieldPrediction].(string); ok {
		rec.Prediction = &s
	}
	if f, ok := toFloat(doc[FieldConfidence]); ok {
		rec.Confidence = &f
	}
	return rec
}

// Label returns the prediction label, or "" when the record has none.
func (r HistoryRecord) Label() string {
	if r.Prediction != nil {
		return *r.Prediction
	}
	s, _ := r.Fields[FieldPrediction].(string)
	return s
}

// MarshalJSON flattens the document and adds the store-assigned fields.
// The identifier is written as both "_id" and "id".
func (r HistoryRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[FieldMongoID] = r.ID
	out[FieldID] = r.ID
	out[FieldCreatedAt] = r.CreatedAt.UTC()
	return json.Marshal(out)
}

// NewID returns a fresh record identifier.
func NewID() string { return primitive.NewObjectID().Hex() }

// ValidID reports whether id is a syntactically valid record identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func firstString(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s, true
		}
	}
	return "", false
}

// toFloat accepts the numeric shapes produced by encoding/json and BSON decoding.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
