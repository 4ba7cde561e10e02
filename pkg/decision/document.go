package decision

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Document is the on-disk form of a decision set. It is what `plan --out`
// writes, what a reviewer edits, and what `apply` reads back.
type Document struct {
	Version     int            `json:"version" yaml:"version"`
	Source      schema.TableID `json:"source" yaml:"source"`
	Target      schema.TableID `json:"target" yaml:"target"`
	MaxDistance int            `json:"max_distance" yaml:"max_distance"`
	GeneratedAt utc.Time       `json:"generated_at" yaml:"generated_at"`
	Rows        []Row          `json:"rows" yaml:"rows"`
}

// NewDocument wraps rows for serialization.
func NewDocument(source, target schema.TableID, maxDistance int, rows []Row) *Document {
	return &Document{
		Version:     constants.DecisionFileVersion,
		Source:      source,
		Target:      target,
		MaxDistance: maxDistance,
		GeneratedAt: utc.Now(),
		Rows:        rows,
	}
}

// Validate checks the header and that every target column appears once.
func (d *Document) Validate() error {
	if d.Version != constants.DecisionFileVersion {
		return errors.NewValidationError("version", d.Version,
			fmt.Sprintf("unsupported decision file version (want %d)", constants.DecisionFileVersion))
	}
	if err := d.Target.Validate(); err != nil {
		return err
	}
	if d.Source == d.Target {
		return errors.NewValidationError("target", d.Target, "must differ from source")
	}
	seen := make(map[string]struct{}, len(d.Rows))
	for _, r := range d.Rows {
		if _, ok := seen[r.TargetColumn]; ok {
			return errors.NewDuplicateColumnError(string(schema.RoleTarget), r.TargetColumn)
		}
		seen[r.TargetColumn] = struct{}{}
		if err := checkDescription(r.TargetColumn, r.ProposedDescription); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the document as YAML.
func (d *Document) Encode(w io.Writer) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	_, err = w.Write(data)
	return err
}

// Decode reads a YAML document and validates it.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	return parse(data, "")
}

func parse(data []byte, file string) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict()).Decode(&d); err != nil {
		return nil, errors.WrapParse("yaml", file, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Save writes the document to path, creating parent directories.
func (d *Document) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return err
	}
	return errors.WrapIO("write", path, os.WriteFile(path, buf.Bytes(), constants.FilePermissions))
}

// Load reads and validates a document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("decision file", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parse(data, path)
}

// Stats summarizes the document rows.
func (d *Document) Stats() Stats {
	return Summarize(d.Rows)
}
