package models

import (
	"encoding/json"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// AppendLog is an ordered, append-only sequence. Entries can be read but
// never edited or removed; Append returns a new log and leaves the receiver
// untouched, so copies of an order never observe each other's appends.
type AppendLog[T any] struct {
	entries []T
}

func NewAppendLog[T any](entries ...T) AppendLog[T] {
	return AppendLog[T]{entries: slices.Clone(entries)}
}

func (l AppendLog[T]) Append(e T) AppendLog[T] {
	return AppendLog[T]{entries: append(slices.Clip(l.entries), e)}
}

func (l AppendLog[T]) Len() int { return len(l.entries) }

func (l AppendLog[T]) At(i int) T { return l.entries[i] }

// Last returns the most recent entry.
func (l AppendLog[T]) Last() (T, bool) {
	if len(l.entries) == 0 {
		var zero T
		return zero, false
	}
	return l.entries[len(l.entries)-1], true
}

// All returns a copy of the entries, never nil.
func (l AppendLog[T]) All() []T {
	out := make([]T, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l AppendLog[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.All())
}

func (l *AppendLog[T]) UnmarshalJSON(data []byte) error {
	var entries []T
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	l.entries = entries
	return nil
}

func (l AppendLog[T]) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(l.All())
}

func (l *AppendLog[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull {
		l.entries = nil
		return nil
	}
	var entries []T
	if err := bson.UnmarshalValue(t, data, &entries); err != nil {
		return err
	}
	l.entries = entries
	return nil
}
