// Package scan wires the document parser, the fail-safe pipeline and the
// report writer together for one or many input files.
package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"failsafe/internal/failsafe"
	"failsafe/internal/logging"
	"failsafe/internal/store"
	"failsafe/internal/xmltree"
)

// Result is the outcome of scanning one document.
type Result struct {
	Source string
	SHA256 string
	failsafe.Extraction
}

// Run converts r into a store.Run for persistence.
func (r *Result) Run() *store.Run {
	return &store.Run{
		Source:       r.Source,
		SHA256:       r.SHA256,
		Blocks:       r.Blocks,
		Observations: len(r.Observations),
		RecordCount:  len(r.Records),
	}
}

// Scanner runs the pipeline with a fixed set of rules.
type Scanner struct {
	classifier *failsafe.Classifier
}

// New returns a Scanner using rules.
func New(rules failsafe.Rules) *Scanner {
	return &Scanner{classifier: failsafe.NewClassifier(rules)}
}

// File reads and scans the document at path.
func (s *Scanner) File(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Bytes(path, data)
}

// Bytes scans an in-memory document; source labels the result.
func (s *Scanner) Bytes(source string, data []byte) (*Result, error) {
	tree, err := xmltree.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	sum := sha256.Sum256(data)
	res := &Result{
		Source:     source,
		SHA256:     hex.EncodeToString(sum[:]),
		Extraction: s.classifier.Extract(tree),
	}
	logging.New("scan").Debug("document scanned",
		"source", source,
		"blocks", res.Blocks,
		"observations", len(res.Observations),
		"records", len(res.Records))
	return res, nil
}
