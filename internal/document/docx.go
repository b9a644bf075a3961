// Package document extracts plain text from uploaded .docx files.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Metadata describes the outcome of a document extraction.
type Metadata struct {
	FileName          string `json:"file_name"`
	FileSize          int    `json:"file_size"`
	ContentLength     int    `json:"content_length"`
	ExtractionSuccess bool   `json:"extraction_success"`
	Error             string `json:"error,omitempty"`
}

// Extract pulls readable text from a .docx payload. Paragraphs become blocks
// separated by blank lines, table rows become "cell | cell" lines. When the
// structural walk finds nothing it falls back to every text node in the
// document.
func Extract(name string, data []byte) (string, Metadata) {
	meta := Metadata{FileName: name, FileSize: len(data)}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		meta.Error = "not a valid docx archive"
		return "", meta
	}

	docXML, err := readArchiveFile(zr, "word/document.xml")
	if err != nil {
		meta.Error = "word/document.xml missing from archive"
		return "", meta
	}

	content, err := extractBody(docXML)
	if err != nil {
		meta.Error = "malformed document xml"
		return "", meta
	}
	if content == "" {
		content = extractAllText(docXML)
	}

	meta.ContentLength = len(content)
	meta.ExtractionSuccess = content != ""
	if !meta.ExtractionSuccess {
		meta.Error = "document contains no extractable text"
	}
	return content, meta
}

func readArchiveFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// extractBody walks the document body in order, emitting paragraph blocks and
// one line per table row.
func extractBody(docXML []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(docXML))

	var (
		blocks     []string
		tableDepth int
		inText     bool

		para       strings.Builder
		inPara     bool
		cellPara   strings.Builder
		inCellPara bool
		cellParas  []string
		row        []string
		inCell     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth > 0 {
					row = nil
				}
			case "tc":
				if tableDepth > 0 {
					inCell = true
					cellParas = nil
				}
			case "p":
				if tableDepth == 0 {
					inPara = true
					para.Reset()
				} else if inCell {
					inCellPara = true
					cellPara.Reset()
				}
			case "t":
				inText = true
			}

		case xml.EndElement:
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "tbl":
				tableDepth--
			case "tr":
				if tableDepth > 0 && rowHasText(row) {
					blocks = append(blocks, strings.Join(row, " | "))
				}
			case "tc":
				if tableDepth > 0 && inCell {
					row = append(row, strings.TrimSpace(strings.Join(cellParas, "\n")))
					inCell = false
				}
			case "p":
				if inPara {
					if text := strings.TrimSpace(para.String()); text != "" {
						blocks = append(blocks, text)
					}
					inPara = false
				} else if inCellPara {
					cellParas = append(cellParas, strings.TrimSpace(cellPara.String()))
					inCellPara = false
				}
			case "t":
				inText = false
			}

		case xml.CharData:
			if !inText {
				continue
			}
			if inPara {
				para.Write(el)
			} else if inCellPara {
				cellPara.Write(el)
			}
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

// extractAllText collects every text node regardless of structure. Last
// resort for documents whose body the structural walk cannot interpret.
func extractAllText(docXML []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(docXML))

	var parts []string
	var inText bool
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space == wordNamespace && el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if el.Name.Space == wordNamespace && el.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				if text := strings.TrimSpace(string(el)); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}

	return strings.Join(parts, "\n")
}

func rowHasText(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}
