package docx

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EMUPerInch is the OOXML drawing unit density.
const EMUPerInch = 914400

// EMU converts inches to English Metric Units.
func EMU(inches float64) int64 {
	return int64(inches * EMUPerInch)
}

type mediaPart struct {
	relID       string
	name        string
	ext         string
	contentType string
	data        []byte
}

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// InlineImage registers the image file as a media part of the package and
// returns the inline drawing XML for a run. The image is scaled to widthEMU,
// preserving the PNG aspect ratio when it can be read; other formats fall
// back to a 2:1 box.
func (d *Document) InlineImage(path string, widthEMU int64) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("docx: read image: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	contentType, ok := imageContentTypes[ext]
	if !ok {
		ext = "png"
		contentType = "image/png"
	}

	heightEMU := widthEMU / 2
	if w, h, ok := pngDimensions(data); ok && w > 0 {
		heightEMU = widthEMU * int64(h) / int64(w)
	}

	d.relMax++
	d.drawingN++
	part := mediaPart{
		relID:       fmt.Sprintf("rId%d", d.relMax),
		name:        fmt.Sprintf("docgen%d.%s", d.drawingN, ext),
		ext:         ext,
		contentType: contentType,
		data:        data,
	}
	d.media = append(d.media, part)

	return inlineDrawingXML(d.drawingN, part.relID, part.name, widthEMU, heightEMU), nil
}

// pngDimensions reads the IHDR width/height of a PNG byte stream.
func pngDimensions(data []byte) (width, height uint32, ok bool) {
	if len(data) < 24 {
		return 0, 0, false
	}
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	for i, b := range sig {
		if data[i] != b {
			return 0, 0, false
		}
	}
	return binary.BigEndian.Uint32(data[16:20]), binary.BigEndian.Uint32(data[20:24]), true
}

// inlineDrawingXML builds a self-contained wp:inline drawing. The drawing
// namespaces are declared on the elements themselves so the markup stays
// valid even when the template's root element does not declare them.
func inlineDrawingXML(id int, relID, name string, cx, cy int64) string {
	return fmt.Sprintf(`<w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">`+
		`<wp:extent cx="%[4]d" cy="%[5]d"/>`+
		`<wp:effectExtent l="0" t="0" r="0" b="0"/>`+
		`<wp:docPr id="%[1]d" name="%[3]s"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%[1]d" name="%[3]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[2]s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/>`+
		`<a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[4]d" cy="%[5]d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`,
		id, relID, name, cx, cy)
}
