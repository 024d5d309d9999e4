// Package mcp exposes the fail-safe scanner and the run history as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"failsafe/internal/failsafe"
	"failsafe/internal/logging"
	"failsafe/internal/report"
	"failsafe/internal/scan"
	"failsafe/internal/store"
)

// DefaultListLimit caps list_runs when the caller gives no limit.
var DefaultListLimit = 20

// Server wraps the MCP SDK server around a Scanner and an optional Store.
type Server struct {
	MCPServer *sdkmcp.Server

	scanner *scan.Scanner

	mu    sync.Mutex
	store store.Store
}

// NewServer creates an MCP server classifying with rules. st may be nil, in
// which case recording and history tools report an error.
func NewServer(rules failsafe.Rules, st store.Store, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{scanner: scan.New(rules), store: st}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "failsafe", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "classify_xml",
		Description: "Classify the fail-safe behaviour of every block instance in an inline XML document.",
	}, s.handleClassifyXML)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "classify_file",
		Description: "Classify an XML file on disk and optionally write the CSV report.",
	}, s.handleClassifyFile)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_runs",
		Description: "List recorded scan runs, newest first.",
	}, s.handleListRuns)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_run",
		Description: "Get one recorded scan run with its resolved records.",
	}, s.handleGetRun)
}

// --- Tool input/output types ---

type classifyXMLInput struct {
	XML    string `json:"xml" jsonschema:"the XML document text"`
	Source string `json:"source,omitempty" jsonschema:"label stored with the run (default inline)"`
	Record bool   `json:"record,omitempty" jsonschema:"save the run to the history store"`
}

type classifyFileInput struct {
	Path   string `json:"path" jsonschema:"path of the XML document"`
	Output string `json:"output,omitempty" jsonschema:"CSV path to write; empty skips writing"`
	Record bool   `json:"record,omitempty" jsonschema:"save the run to the history store"`
}

type classifyOutput struct {
	RunID        int64             `json:"run_id,omitempty"`
	Source       string            `json:"source"`
	SHA256       string            `json:"sha256"`
	Blocks       int               `json:"blocks"`
	Observations int               `json:"observations"`
	Records      []failsafe.Record `json:"records"`
	Counts       []failsafe.Count  `json:"counts"`
	Empty        bool              `json:"empty"`
	Output       string            `json:"output,omitempty"`
}

type listRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum runs to return (default 20)"`
}

type listRunsOutput struct {
	Runs []*store.Run `json:"runs"`
}

type getRunInput struct {
	ID int64 `json:"id" jsonschema:"run ID from list_runs"`
}

type getRunOutput struct {
	Run     *store.Run        `json:"run"`
	Records []failsafe.Record `json:"records"`
}

// --- Handlers ---

func (s *Server) handleClassifyXML(_ context.Context, _ *sdkmcp.CallToolRequest, input classifyXMLInput) (*sdkmcp.CallToolResult, classifyOutput, error) {
	if strings.TrimSpace(input.XML) == "" {
		return nil, classifyOutput{}, errors.New("xml is required")
	}
	source := input.Source
	if source == "" {
		source = "inline"
	}
	res, err := s.scanner.Bytes(source, []byte(input.XML))
	if err != nil {
		return nil, classifyOutput{}, fmt.Errorf("classify_xml: %w", err)
	}
	out := newClassifyOutput(res)
	if input.Record {
		if out.RunID, err = s.record(res); err != nil {
			return nil, classifyOutput{}, err
		}
	}
	return nil, out, nil
}

func (s *Server) handleClassifyFile(_ context.Context, _ *sdkmcp.CallToolRequest, input classifyFileInput) (*sdkmcp.CallToolResult, classifyOutput, error) {
	if input.Path == "" {
		return nil, classifyOutput{}, errors.New("path is required")
	}
	res, err := s.scanner.File(input.Path)
	if err != nil {
		return nil, classifyOutput{}, fmt.Errorf("classify_file: %w", err)
	}
	out := newClassifyOutput(res)
	if input.Output != "" && !res.Empty() {
		if err := report.WriteFile(input.Output, res.Records); err != nil {
			return nil, classifyOutput{}, fmt.Errorf("classify_file: %w", err)
		}
		out.Output = input.Output
	}
	if input.Record {
		if out.RunID, err = s.record(res); err != nil {
			return nil, classifyOutput{}, err
		}
	}
	return nil, out, nil
}

func (s *Server) handleListRuns(_ context.Context, _ *sdkmcp.CallToolRequest, input listRunsInput) (*sdkmcp.CallToolResult, listRunsOutput, error) {
	st, err := s.requireStore()
	if err != nil {
		return nil, listRunsOutput{}, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	runs, err := st.ListRuns(limit)
	if err != nil {
		return nil, listRunsOutput{}, fmt.Errorf("list_runs: %w", err)
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	return nil, listRunsOutput{Runs: runs}, nil
}

func (s *Server) handleGetRun(_ context.Context, _ *sdkmcp.CallToolRequest, input getRunInput) (*sdkmcp.CallToolResult, getRunOutput, error) {
	st, err := s.requireStore()
	if err != nil {
		return nil, getRunOutput{}, err
	}
	run, err := st.GetRun(input.ID)
	if err != nil {
		return nil, getRunOutput{}, fmt.Errorf("get_run: %w", err)
	}
	if run == nil {
		return nil, getRunOutput{}, fmt.Errorf("run %d not found", input.ID)
	}
	recs, err := st.Records(run.ID)
	if err != nil {
		return nil, getRunOutput{}, fmt.Errorf("get_run: %w", err)
	}
	if recs == nil {
		recs = []failsafe.Record{}
	}
	return nil, getRunOutput{Run: run, Records: recs}, nil
}

func newClassifyOutput(res *scan.Result) classifyOutput {
	return classifyOutput{
		Source:       res.Source,
		SHA256:       res.SHA256,
		Blocks:       res.Blocks,
		Observations: len(res.Observations),
		Records:      res.Records,
		Counts:       failsafe.Tally(res.Records),
		Empty:        res.Empty(),
	}
}

func (s *Server) record(res *scan.Result) (int64, error) {
	st, err := s.requireStore()
	if err != nil {
		return 0, err
	}
	id, err := st.SaveRun(res.Run(), res.Records)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	logging.New("mcp").Info("run recorded", "id", id, "source", res.Source, "records", len(res.Records))
	return id, nil
}

func (s *Server) requireStore() (store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, errors.New("no history store configured (start the server with --store)")
	}
	return s.store, nil
}

// Shutdown closes the history store, if any.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		logging.New("mcp").Warn("close store", "error", err)
	}
	s.store = nil
}
