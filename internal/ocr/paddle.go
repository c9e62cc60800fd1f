// Package ocr ingests recognition output from external OCR engines into
// fragment sequences. The grading core never invokes OCR itself; these
// loaders are the boundary to that collaborator.
package ocr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chen-albert-liang/grading-tool/internal/cache"
	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// paddleResult mirrors the PaddleOCR save_to_json layout: three same-length
// ordered sequences of texts, confidence scores and bounding boxes.
type paddleResult struct {
	RecTexts  []string  `json:"rec_texts"`
	RecScores []float64 `json:"rec_scores"`
	RecBoxes  [][]int   `json:"rec_boxes"`
}

// ParsePaddleJSON decodes a PaddleOCR result document into fragments,
// preserving recognition order.
func ParsePaddleJSON(data []byte) ([]model.Fragment, error) {
	var res paddleResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode ocr result: %w", err)
	}
	if len(res.RecScores) != len(res.RecTexts) || len(res.RecBoxes) != len(res.RecTexts) {
		return nil, fmt.Errorf("ocr result sequences out of sync: %d texts, %d scores, %d boxes",
			len(res.RecTexts), len(res.RecScores), len(res.RecBoxes))
	}

	fragments := make([]model.Fragment, len(res.RecTexts))
	for i := range res.RecTexts {
		box := res.RecBoxes[i]
		if len(box) < 4 {
			return nil, fmt.Errorf("ocr result box %d: expected 4 coordinates, got %d", i, len(box))
		}
		fragments[i] = model.Fragment{
			Text:       res.RecTexts[i],
			Confidence: res.RecScores[i],
			Box:        [4]int{box[0], box[1], box[2], box[3]},
		}
	}
	return fragments, nil
}

// Loader reads OCR result files, dispatching on extension: PaddleOCR JSON
// or hOCR HTML. Parsed fragments are cached keyed by path and mtime.
type Loader struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(c cache.Cache, ttl time.Duration) *Loader {
	return &Loader{cache: c, ttl: ttl}
}

// LoadFile reads and parses one OCR result file.
func (l *Loader) LoadFile(path string) ([]model.Fragment, error) {
	var key string
	if l.cache != nil {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat ocr file: %w", err)
		}
		key = cache.Key(fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size()))
		if cached, ok := l.cache.Get(key); ok {
			var fragments []model.Fragment
			if err := json.Unmarshal(cached, &fragments); err == nil {
				return fragments, nil
			}
			// Corrupt entry: fall through to a fresh parse.
			_ = l.cache.Delete(key)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ocr file: %w", err)
	}

	var fragments []model.Fragment
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".hocr":
		fragments, err = ParseHOCR(data)
	default:
		fragments, err = ParsePaddleJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if l.cache != nil {
		if encoded, err := json.Marshal(fragments); err == nil {
			_ = l.cache.Set(key, encoded, l.ttl)
		}
	}
	return fragments, nil
}

// StudentIDFromPath derives a student id from an OCR result filename:
// "hw_2_res.json" becomes "hw_2".
func StudentIDFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSuffix(stem, "_res")
}
