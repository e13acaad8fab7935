package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/progress"
)

func init() { color.NoColor = true }

var generated = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func sampleReport() Report {
	at := generated.Add(-time.Minute)
	sum := domain.Summary{
		RunID:     "run-42",
		StartedAt: at,
		Inputs:    6,
		Reachable: []domain.Result{
			{Target: "https://a.example", Index: 0, Outcome: domain.Reachable(200).WithLatency(12 * time.Millisecond), CheckedAt: at},
			{Target: "https://c.example", Index: 2, Outcome: domain.Reachable(301), CheckedAt: at},
		},
		Unreachable: []domain.Result{
			{Target: "https://b.example", Index: 1, Outcome: domain.Unreachable(domain.ReasonHTTP, 503, ""), CheckedAt: at},
			{Target: "https://d.example", Index: 3, Outcome: domain.Unreachable(domain.ReasonDNS, 0, "no such host"), CheckedAt: at},
		},
		Malformed: []domain.Result{
			{Target: "ftp://e.example", Index: 4, Outcome: domain.Malformed(`unsupported scheme "ftp"`), CheckedAt: at},
		},
		Stats: domain.RunStats{Total: 5, Completed: 5, Reachable: 2, Unreachable: 2, Malformed: 1, Elapsed: 1500 * time.Millisecond},
	}
	return Report{
		Summary:     sum,
		GeneratedAt: generated,
		Diagnoses: []probe.Diagnosis{
			{Target: "https://d.example", Detail: "dns: no such host dns=NXDOMAIN"},
		},
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(generated, FormatText); got != "website_report_20240309_140507.txt" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestParseFormats(t *testing.T) {
	fs, err := ParseFormats(" txt, JSON ,txt")
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	if len(fs) != 2 || fs[0] != FormatText || fs[1] != FormatJSON {
		t.Fatalf("got %v", fs)
	}
	if _, err := ParseFormats("txt,pdf,doc"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("want ErrUnknownFormat, got %v", err)
	}
	if _, err := ParseFormats(""); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("empty list must be rejected, got %v", err)
	}
}

func TestText_SectionsAndReachableRoundTrip(t *testing.T) {
	rep := sampleReport()
	var buf bytes.Buffer
	if err := Encode(&buf, rep, FormatText); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Total sites: 5",
		"Reachable: 2",
		"Unreachable: 2",
		"Malformed: 1",
		"https://b.example\nReason: HTTP 503",
		"https://d.example\nReason: dns: no such host",
		"ftp://e.example\nReason: unsupported scheme \"ftp\"",
		sectionReverify + "\nhttps://d.example\nResult: dns: no such host dns=NXDOMAIN",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text report missing %q:\n%s", want, out)
		}
	}

	got, err := ReachableFromText(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReachableFromText: %v", err)
	}
	want := rep.Summary.ReachableTargets()
	if len(got) != len(want) {
		t.Fatalf("round trip: want %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("round trip position %d: want %s got %s", i, want[i], got[i])
		}
	}
}

func TestText_NoReverifySectionWithoutDiagnoses(t *testing.T) {
	rep := sampleReport()
	rep.Diagnoses = nil
	var buf bytes.Buffer
	if err := Encode(&buf, rep, FormatText); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(buf.String(), sectionReverify) {
		t.Fatalf("re-verification section should be omitted")
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	rep := sampleReport()
	var buf bytes.Buffer
	if err := Encode(&buf, rep, FormatJSON); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	doc, err := DecodeDocument(&buf)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if doc.RunID != "run-42" || doc.Total != 5 || doc.Inputs != 6 {
		t.Fatalf("header: %+v", doc)
	}
	if len(doc.Reachable) != 2 || doc.Reachable[0].URL != "https://a.example" || doc.Reachable[1].URL != "https://c.example" {
		t.Fatalf("reachable: %+v", doc.Reachable)
	}
	if doc.Reachable[0].LatencyMS != 12 {
		t.Fatalf("latency: %v", doc.Reachable[0].LatencyMS)
	}
	if doc.Unreachable[1].Detail != "dns: no such host" || doc.Unreachable[1].Reason != "dns" {
		t.Fatalf("unreachable detail: %+v", doc.Unreachable[1])
	}
	if len(doc.Reverification) != 1 {
		t.Fatalf("reverification: %+v", doc.Reverification)
	}
}

func TestCSV_BucketsMatchText(t *testing.T) {
	rep := sampleReport()
	var buf bytes.Buffer
	if err := Encode(&buf, rep, FormatCSV); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	// header + 5 results + 1 diagnosis
	if len(rows) != 7 {
		t.Fatalf("want 7 rows, got %d", len(rows))
	}
	want := map[string]string{
		"https://a.example": "HTTP 200",
		"https://b.example": "HTTP 503",
		"https://d.example": "dns: no such host",
		"ftp://e.example":   `unsupported scheme "ftp"`,
	}
	for _, row := range rows[1:6] {
		if w, ok := want[row[1]]; ok && row[5] != w {
			t.Fatalf("%s: detail %q, want %q", row[1], row[5], w)
		}
	}
	if rows[1][0] != "reachable" || rows[3][0] != "unreachable" || rows[5][0] != "malformed" || rows[6][0] != "reverification" {
		t.Fatalf("bucket column order wrong: %v", rows)
	}
}

func TestXLSX_SheetsAndReachable(t *testing.T) {
	rep := sampleReport()
	var buf bytes.Buffer
	if err := Encode(&buf, rep, FormatXLSX); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetReachable)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "https://a.example" || rows[2][0] != "https://c.example" {
		t.Fatalf("reachable sheet: %v", rows)
	}
	mal, err := f.GetRows(sheetMalformed)
	if err != nil {
		t.Fatalf("GetRows malformed: %v", err)
	}
	if len(mal) != 2 || mal[1][4] != `unsupported scheme "ftp"` {
		t.Fatalf("malformed sheet: %v", mal)
	}
	if idx, err := f.GetSheetIndex(sheetReverify); err != nil || idx < 0 {
		t.Fatalf("re-verification sheet missing: idx=%d err=%v", idx, err)
	}
}

func TestWriter_WriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "website_reports")
	core, logs := observer.New(zapcore.InfoLevel)
	w := NewWriter(dir, zap.New(core))

	paths, err := w.WriteAll(sampleReport(), Formats())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("want 4 files, got %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if !strings.HasPrefix(filepath.Base(p), "website_report_20240309_140507.") {
			t.Fatalf("unexpected name %s", p)
		}
	}
	if n := logs.FilterMessage("report_written").Len(); n != 4 {
		t.Fatalf("want 4 report_written logs, got %d", n)
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := ReachableFromText(f)
	if err != nil || len(got) != 2 {
		t.Fatalf("reachable read back from disk: %v %v", got, err)
	}
}

func TestWriter_UnknownFormatRemovesFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)
	paths, err := w.WriteAll(sampleReport(), []Format{FormatText, Format("pdf")})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("want ErrUnknownFormat, got %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("the good format should still be written: %v", paths)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("failed report left behind: %v", entries)
	}
	if want := FileName(sampleReport().GeneratedAt, FormatText); entries[0].Name() != want {
		t.Fatalf("want %s to survive, got %s", want, entries[0].Name())
	}
}

func TestWriter_EncodeFailureRemovesOnlyItsOwnFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)
	rep := sampleReport()

	path, err := w.Write(rep, Format("pdf"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("want ErrUnknownFormat, got %v", err)
	}
	if path != "" {
		t.Fatalf("want empty path on failure, got %q", path)
	}
	if _, statErr := os.Stat(filepath.Join(dir, FileName(rep.GeneratedAt, Format("pdf")))); !os.IsNotExist(statErr) {
		t.Fatalf("partial report still on disk: %v", statErr)
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	rep := sampleReport()

	c.Status(rep.Summary.Reachable[0])
	c.Status(rep.Summary.Unreachable[1])
	c.Status(rep.Summary.Malformed[0])
	c.Progress(progress.Snapshot{RunStats: domain.RunStats{Total: 50, Completed: 12, Elapsed: 6 * time.Second}, Throughput: 2, ETA: 19 * time.Second})
	c.Summary(rep.Summary)
	c.Diagnoses(rep.Diagnoses)

	out := buf.String()
	for _, want := range []string{
		"✓ SUCCESS | https://a.example",
		"| HTTP 200\n",
		"✗ FAIL    | https://d.example",
		"⚠ ERROR   | ftp://e.example",
		"progress: 12/50 (24.0%) | elapsed: 6.0s | rate: 2.0/s | eta: 19s",
		"run run-42",
		"dns=NXDOMAIN",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestClip(t *testing.T) {
	long := strings.Repeat("x", 60)
	if got := clip(long, urlWidth); len(got) != urlWidth {
		t.Fatalf("clip len = %d", len(got))
	}
	if clip("short", urlWidth) != "short" {
		t.Fatalf("short strings are kept")
	}
}
