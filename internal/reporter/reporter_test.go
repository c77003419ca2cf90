package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/photo-dedupe/internal/dedupe"
)

func sampleReport() Report {
	return Report{
		Root:      "/photos",
		Threshold: 90,
		Scanned:   5,
		Groups: []dedupe.SimilarityGroup{
			{
				ReferenceHash: "00FF00FF00FF00FF",
				Members: []dedupe.GroupMember{
					{Path: "/photos/a.jpg", Hash: "00FF00FF00FF00FF", Similarity: 100, Size: 2048},
					{Path: "/photos/b.jpg", Hash: "00FF00FF00FF00FE", Similarity: 96.875, Size: 1024},
				},
			},
		},
		CreatedAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Root != "/photos" || decoded.Threshold != 90 {
		t.Errorf("round-trip lost fields: %+v", decoded)
	}
	if len(decoded.Groups) != 1 || len(decoded.Groups[0].Members) != 2 {
		t.Errorf("round-trip lost groups: %+v", decoded.Groups)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"/photos/a.jpg", "/photos/b.jpg", "00FF00FF00FF00FF", "5 images scanned", "1 groups found"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, Report{Root: "/photos"}); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No similar images") {
		t.Errorf("empty report output = %q", buf.String())
	}
}
