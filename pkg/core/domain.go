// Package core holds the domain model of the key-value store: the three
// namespaces, key classification, pagination and the generic router.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Metadata represents the flexible key-value pairs attached to a file record.
type Metadata map[string]any

// FileRecord is a stored file payload together with its metadata.
type FileRecord struct {
	Value    string   `json:"value"`
	Metadata Metadata `json:"metadata"`
}

// Operation is a queued index work item.
// Timestamp is expressed in Unix milliseconds. Any JSON number is accepted and
// written back exactly as it was read.
type Operation struct {
	Type      string          `json:"type"`
	Timestamp json.Number     `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Processed bool            `json:"processed"`
}

// Millis returns the numeric timestamp. A missing or unparsable timestamp
// counts as zero.
func (o Operation) Millis() float64 {
	if o.Timestamp == "" {
		return 0
	}
	v, err := o.Timestamp.Float64()
	if err != nil {
		return 0
	}
	return v
}

// MillisTimestamp encodes a Unix millisecond time as an operation timestamp.
func MillisTimestamp(ms int64) json.Number {
	return json.Number(strconv.FormatInt(ms, 10))
}

// OperationEntry is an Operation tagged with its id, as returned by listings.
type OperationEntry struct {
	ID string `json:"id"`
	Operation
}

// PutOptions carries the optional arguments of a generic Put.
type PutOptions struct {
	Metadata Metadata
}

// ListOptions carries the arguments of a listing.
// A Limit of zero or less means DefaultListLimit.
type ListOptions struct {
	Prefix string
	Limit  int
	Cursor string
}

// ListKey is one entry of a listing. Files carry Metadata, settings carry Value,
// operations carry only the Name.
type ListKey struct {
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
	Value    any      `json:"value,omitempty"`
}

// ListResult is the generic shape of a listing.
// Cursor is empty when no further page exists.
type ListResult struct {
	Keys         []ListKey `json:"keys"`
	Cursor       string    `json:"cursor,omitempty"`
	ListComplete bool      `json:"list_complete"`
}

// OperationListOptions filters a listing of index operations.
// A nil Processed disables the processed filter.
type OperationListOptions struct {
	Limit     int
	Processed *bool
}

// Entry is the result of GetWithMetadata.
type Entry struct {
	Value    any      `json:"value"`
	Metadata Metadata `json:"metadata"`
}

// EventType represents the kind of change observed on the backing store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents an external change of the backing store.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
