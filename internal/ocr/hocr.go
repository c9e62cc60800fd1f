package ocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/chen-albert-liang/grading-tool/internal/model"
)

// ParseHOCR extracts line-level fragments from an hOCR document (the
// HTML-based OCR interchange format). Each ocr_line element yields one
// fragment; its bounding box comes from the title's bbox property and its
// confidence from x_wconf, averaged over the line's words when the line
// itself carries none. hOCR reports x_wconf in 0-100, scaled here to [0,1].
func ParseHOCR(data []byte) ([]model.Fragment, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse hocr: %w", err)
	}

	var fragments []model.Fragment
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_line") {
			frag, ok := lineFragment(n)
			if ok {
				fragments = append(fragments, frag)
			}
			return // words inside the line are already consumed
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return fragments, nil
}

func lineFragment(n *html.Node) (model.Fragment, bool) {
	props := titleProps(attr(n, "title"))

	box, ok := parseBBox(props["bbox"])
	if !ok {
		return model.Fragment{}, false
	}

	text := strings.Join(strings.Fields(collectText(n)), " ")
	if text == "" {
		return model.Fragment{}, false
	}

	confidence := 1.0
	if wconf, ok := parseWConf(props["x_wconf"]); ok {
		confidence = wconf
	} else if avg, ok := averageWordConf(n); ok {
		confidence = avg
	}

	return model.Fragment{Text: text, Confidence: confidence, Box: box}, true
}

// averageWordConf averages x_wconf over the line's ocrx_word descendants.
func averageWordConf(n *html.Node) (float64, bool) {
	var sum float64
	var count int
	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && hasClass(c, "ocrx_word") {
			props := titleProps(attr(c, "title"))
			if wconf, ok := parseWConf(props["x_wconf"]); ok {
				sum += wconf
				count++
			}
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func collectText(n *html.Node) string {
	var buf strings.Builder
	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
			buf.WriteString(" ")
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return buf.String()
}

// titleProps splits an hOCR title attribute ("bbox 1 2 3 4; x_wconf 95")
// into its semicolon-separated properties.
func titleProps(title string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		props[fields[0]] = strings.Join(fields[1:], " ")
	}
	return props
}

func parseBBox(value string) ([4]int, bool) {
	fields := strings.Fields(value)
	if len(fields) != 4 {
		return [4]int{}, false
	}
	var box [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return [4]int{}, false
		}
		box[i] = v
	}
	return box, true
}

func parseWConf(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Fields(value)[0], 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
