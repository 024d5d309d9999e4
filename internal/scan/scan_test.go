package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"failsafe/internal/failsafe"
	"failsafe/internal/scan"
)

const valveDoc = `<?xml version="1.0" encoding="utf-8"?>
<project>
  <types><pous><pou name="Main"><body><FBD>
    <block localId="1" typeName="Valve" instanceName="V1">
      <inputVariables>
        <variable formalParameter="IN_EHSH_A"><connectionPointIn><connection refLocalId="9"/></connectionPointIn></variable>
      </inputVariables>
    </block>
  </FBD></body></pou></pous></types>
</project>`

const complexDoc = `<project><block typeName="Valve" instanceName="V1"><inputVariables>
  <variable formalParameter="IN_EHSH_A"><connectionPointIn><connection refLocalId="1"/></connectionPointIn></variable>
  <variable formalParameter="IN_EHSL_B"><connectionPointIn><connection refLocalId="2"/></connectionPointIn></variable>
</inputVariables></block></project>`

const emptyDoc = `<project><types/></project>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "valve.xml", valveDoc)
	res, err := scan.New(failsafe.DefaultRules()).File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	want := []failsafe.Record{{InstanceName: "V1", TypeName: "Valve", FailSafeType: failsafe.Normal}}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("Records (-want +got):\n%s", diff)
	}
	if len(res.SHA256) != 64 {
		t.Errorf("SHA256 = %q, want 64 hex chars", res.SHA256)
	}
	run := res.Run()
	if run.Source != path || run.Blocks != 1 || run.Observations != 1 || run.RecordCount != 1 {
		t.Errorf("Run() = %+v", run)
	}
}

func TestFile_Errors(t *testing.T) {
	s := scan.New(failsafe.DefaultRules())
	dir := t.TempDir()
	if _, err := s.File(filepath.Join(dir, "missing.xml")); err == nil {
		t.Error("expected read error")
	}
	bad := writeFile(t, dir, "bad.xml", "<project><block></project>")
	if _, err := s.File(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	got := scan.OutputPath("out", "/plants/north/line1.xml")
	if got != filepath.Join("out", "line1.csv") {
		t.Errorf("OutputPath = %q", got)
	}
}

func TestBatch(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	paths := []string{
		writeFile(t, in, "a/plant.xml", valveDoc),
		writeFile(t, in, "complex.xml", complexDoc),
		writeFile(t, in, "empty.xml", emptyDoc),
		writeFile(t, in, "broken.xml", "<project>"),
		writeFile(t, in, "b/plant.xml", complexDoc),
		writeFile(t, in, "plant-2.xml", valveDoc),
	}

	results, err := scan.New(failsafe.DefaultRules()).Batch(context.Background(), paths, scan.BatchOptions{
		OutputDir: out,
		Workers:   3,
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q, want input order %q", i, r.Path, paths[i])
		}
	}

	if results[0].Err != nil || results[0].Output != filepath.Join(out, "plant.csv") {
		t.Errorf("plant: %+v", results[0])
	}
	if results[4].Output != filepath.Join(out, "plant-2.csv") {
		t.Errorf("duplicate base name output = %q", results[4].Output)
	}
	if results[5].Output != filepath.Join(out, "plant-2-2.csv") {
		t.Errorf("output for plant-2.xml = %q, must not reuse a suffixed name", results[5].Output)
	}
	if results[2].Err != nil || results[2].Output != "" || !results[2].Result.Empty() {
		t.Errorf("empty document should produce no output: %+v", results[2])
	}
	if results[3].Err == nil {
		t.Error("broken document should report an error")
	}

	data, err := os.ReadFile(filepath.Join(out, "complex.csv"))
	if err != nil {
		t.Fatalf("read complex.csv: %v", err)
	}
	want := "InstanceName,TypeName,FailSafeType\nV1,Valve,Complex Fail Safe"
	if string(data) != want {
		t.Errorf("complex.csv = %q, want %q", data, want)
	}
	if _, err := os.Stat(filepath.Join(out, "empty.csv")); !os.IsNotExist(err) {
		t.Errorf("empty.csv should not exist: %v", err)
	}
}

func TestBatch_DryRun(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	p := writeFile(t, in, "valve.xml", valveDoc)
	results, err := scan.New(failsafe.DefaultRules()).Batch(context.Background(), []string{p}, scan.BatchOptions{
		OutputDir: out,
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if results[0].Output != "" || len(results[0].Result.Records) != 1 {
		t.Errorf("dry run result = %+v", results[0])
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files", len(entries))
	}
}

func TestBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := writeFile(t, t.TempDir(), "valve.xml", valveDoc)
	if _, err := scan.New(failsafe.DefaultRules()).Batch(ctx, []string{p}, scan.BatchOptions{OutputDir: t.TempDir()}); err == nil {
		t.Error("expected context error")
	}
}

func TestBatch_OutputNamesNeverCollide(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	paths := []string{
		writeFile(t, in, "a/plant.xml", valveDoc),
		writeFile(t, in, "b/plant.xml", complexDoc),
		writeFile(t, in, "plant-2.xml", valveDoc),
		writeFile(t, in, "c/plant.xml", complexDoc),
	}
	results, err := scan.New(failsafe.DefaultRules()).Batch(context.Background(), paths, scan.BatchOptions{
		OutputDir: out,
		Workers:   1,
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	var got []string
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Path, r.Err)
		}
		got = append(got, filepath.Base(r.Output))
	}
	want := []string{"plant.csv", "plant-2.csv", "plant-2-2.csv", "plant-3.csv"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outputs (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(paths) {
		t.Errorf("wrote %d files, want one per input (%d)", len(entries), len(paths))
	}
	data, err := os.ReadFile(filepath.Join(out, "plant-2.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Complex Fail Safe") {
		t.Errorf("plant-2.csv was overwritten: %q", data)
	}
}
