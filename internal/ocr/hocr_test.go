package ocr

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleHOCR = `<!DOCTYPE html>
<html>
<body>
<div class="ocr_page" title="bbox 0 0 1000 1400">
  <span class="ocr_line" title="bbox 10 20 300 50; x_wconf 92">
    <span class="ocrx_word" title="bbox 10 20 80 50; x_wconf 90">填空(1)</span>
  </span>
  <span class="ocr_line" title="bbox 10 60 120 90">
    <span class="ocrx_word" title="bbox 10 60 60 90; x_wconf 80">x=1.2</span>
    <span class="ocrx_word" title="bbox 70 60 120 90; x_wconf 60">ok</span>
  </span>
  <span class="ocr_line" title="bbox 10 100 120 130">
    <span class="ocrx_word" title="bbox 10 100 60 130">24</span>
  </span>
  <span class="ocr_line" title="no box here">skipped</span>
</div>
</body>
</html>`

func TestParseHOCR(t *testing.T) {
	fragments, err := ParseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR: %v", err)
	}
	if len(fragments) != 3 {
		t.Fatalf("got %d fragments, want 3", len(fragments))
	}

	// Line-level x_wconf wins over word averages.
	if fragments[0].Text != "填空(1)" {
		t.Errorf("text[0] = %q", fragments[0].Text)
	}
	if math.Abs(fragments[0].Confidence-0.92) > 1e-9 {
		t.Errorf("confidence[0] = %v, want 0.92", fragments[0].Confidence)
	}
	if fragments[0].Box != [4]int{10, 20, 300, 50} {
		t.Errorf("box[0] = %v", fragments[0].Box)
	}

	// No line confidence: average of the word confidences.
	if fragments[1].Text != "x=1.2 ok" {
		t.Errorf("text[1] = %q", fragments[1].Text)
	}
	if math.Abs(fragments[1].Confidence-0.70) > 1e-9 {
		t.Errorf("confidence[1] = %v, want 0.70", fragments[1].Confidence)
	}

	// No confidence anywhere: defaults to 1.0.
	if fragments[2].Confidence != 1.0 {
		t.Errorf("confidence[2] = %v, want 1.0", fragments[2].Confidence)
	}
}

func TestParseHOCREmptyDocument(t *testing.T) {
	fragments, err := ParseHOCR([]byte("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("ParseHOCR: %v", err)
	}
	if len(fragments) != 0 {
		t.Errorf("got %d fragments, want 0", len(fragments))
	}
}

func TestLoadFileHOCRByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.hocr")
	if err := os.WriteFile(path, []byte(sampleHOCR), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := NewLoader(nil, 0)
	fragments, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(fragments) != 3 {
		t.Errorf("got %d fragments, want 3", len(fragments))
	}
}

func TestTitleProps(t *testing.T) {
	props := titleProps("bbox 1 2 3 4; x_wconf 95")
	if props["bbox"] != "1 2 3 4" {
		t.Errorf("bbox = %q", props["bbox"])
	}
	if props["x_wconf"] != "95" {
		t.Errorf("x_wconf = %q", props["x_wconf"])
	}
}
