package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/btree"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

var emptyObject = json.RawMessage(`{}`)

// fileEntry is the stored form of a core.FileRecord. Metadata stays encoded so
// callers always receive their own copy.
type fileEntry struct {
	Value    string          `json:"value"`
	Metadata json.RawMessage `json:"metadata"`
}

// storeFile is the on-disk shape of the store. Records are decoded one by one
// so a single unreadable record does not cost the rest of the document.
type storeFile struct {
	Files      map[string]json.RawMessage `json:"files"`
	Settings   map[string]json.RawMessage `json:"settings"`
	Operations map[string]json.RawMessage `json:"operations"`
}

// document is the in-memory state of the store.
// Files and settings are kept ordered by key for prefix listings.
type document struct {
	files      *btree.Map[string, fileEntry]
	settings   *btree.Map[string, json.RawMessage]
	operations map[string]core.Operation

	// Records that could not be decoded. They are invisible to callers and
	// written back verbatim until their id is overwritten or deleted.
	strayFiles      map[string]json.RawMessage
	strayOperations map[string]json.RawMessage
}

func newDocument() *document {
	return &document{
		files:           btree.NewMap[string, fileEntry](0),
		settings:        btree.NewMap[string, json.RawMessage](0),
		operations:      make(map[string]core.Operation),
		strayFiles:      make(map[string]json.RawMessage),
		strayOperations: make(map[string]json.RawMessage),
	}
}

// decodeDocument parses the backing file. Missing namespaces are left empty.
// Only a file that is not a JSON object of namespaces is an error.
func decodeDocument(data []byte, logger *slog.Logger) (*document, error) {
	var raw storeFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	doc := newDocument()
	for id, rec := range raw.Files {
		var entry fileEntry
		if err := json.Unmarshal(rec, &entry); err != nil {
			logger.Warn("keeping unreadable file record as-is", "id", id, "error", err)
			doc.strayFiles[id] = rec
			continue
		}
		if isEmptyJSON(entry.Metadata) {
			entry.Metadata = emptyObject
		}
		doc.files.Set(id, entry)
	}
	for key, value := range raw.Settings {
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		doc.settings.Set(key, value)
	}
	for id, rec := range raw.Operations {
		op, err := decodeOperationRecord(rec)
		if err != nil {
			logger.Warn("keeping unreadable operation record as-is", "id", id, "error", err)
			doc.strayOperations[id] = rec
			continue
		}
		doc.operations[id] = op
	}
	return doc, nil
}

func decodeOperationRecord(rec json.RawMessage) (core.Operation, error) {
	var op core.Operation
	if err := json.Unmarshal(rec, &op); err != nil {
		return op, err
	}
	if err := validateOperation(op); err != nil {
		return op, err
	}
	return op, nil
}

// validateOperation checks the parts of an operation that are written back
// verbatim.
func validateOperation(op core.Operation) error {
	if op.Timestamp != "" && !isJSONNumber([]byte(op.Timestamp)) {
		return fmt.Errorf("timestamp %q is not a number", string(op.Timestamp))
	}
	if len(op.Data) > 0 && !json.Valid(op.Data) {
		return fmt.Errorf("data is not valid JSON")
	}
	return nil
}

func isJSONNumber(b []byte) bool {
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return false
	}
	return json.Valid(b)
}

// encode serializes the whole document with all three namespaces present.
func (d *document) encode() ([]byte, error) {
	out := storeFile{
		Files:      make(map[string]json.RawMessage, d.files.Len()+len(d.strayFiles)),
		Settings:   make(map[string]json.RawMessage, d.settings.Len()),
		Operations: make(map[string]json.RawMessage, len(d.operations)+len(d.strayOperations)),
	}
	for id, rec := range d.strayFiles {
		out.Files[id] = rec
	}
	for id, rec := range d.strayOperations {
		out.Operations[id] = rec
	}

	var encErr error
	d.files.Scan(func(id string, entry fileEntry) bool {
		rec, err := json.Marshal(entry)
		if err != nil {
			encErr = fmt.Errorf("file %s: %w", id, err)
			return false
		}
		out.Files[id] = rec
		return true
	})
	if encErr != nil {
		return nil, encErr
	}
	d.settings.Scan(func(key string, value json.RawMessage) bool {
		out.Settings[key] = value
		return true
	})
	for id, op := range d.operations {
		rec, err := json.Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", id, err)
		}
		out.Operations[id] = rec
	}
	return json.MarshalIndent(out, "", "  ")
}

func (d *document) setFile(id string, entry fileEntry) {
	delete(d.strayFiles, id)
	d.files.Set(id, entry)
}

func (d *document) deleteFile(id string) {
	delete(d.strayFiles, id)
	d.files.Delete(id)
}

func (d *document) setOperation(id string, op core.Operation) {
	delete(d.strayOperations, id)
	d.operations[id] = op
}

func (d *document) deleteOperation(id string) {
	delete(d.strayOperations, id)
	delete(d.operations, id)
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// encodeMetadata validates metadata and returns its stored form.
func encodeMetadata(metadata core.Metadata) (json.RawMessage, error) {
	if len(metadata) == 0 {
		return emptyObject, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata is not JSON encodable: %v", core.ErrInvalidValue, err)
	}
	return raw, nil
}

// decodeMetadata returns the metadata of a file record. Stored metadata that
// is not a JSON object is reported as empty metadata and as an error.
func decodeMetadata(raw json.RawMessage) (core.Metadata, error) {
	meta := core.Metadata{}
	if isEmptyJSON(raw) {
		return meta, nil
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return core.Metadata{}, err
	}
	return meta, nil
}

// metadataOf decodes the metadata of file id, logging metadata that cannot be
// represented.
func (r *Repository) metadataOf(id string, raw json.RawMessage) core.Metadata {
	meta, err := decodeMetadata(raw)
	if err != nil {
		r.logger.Debug("file metadata is not an object, reporting it empty",
			"path", r.Path, "id", id, "error", err)
	}
	return meta
}
