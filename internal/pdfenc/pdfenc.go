// Package pdfenc serializes laid-out pages into a single self-contained
// PDF 1.4 file. Objects are collected in an arena keyed by id, with ids
// assigned in a fixed order (catalog, page tree, fonts, shared resources,
// image XObjects in first-use order, then per-page content and page
// objects, and the info dictionary last), so identical input produces
// byte-identical output apart from the creation date.
//
// Text uses the standard Type1 faces with WinAnsi encoding; content
// streams are Flate-compressed. After assembly the encoder re-reads its
// own cross-reference table against the emitted buffer and refuses to
// return a file whose offsets do not line up.
package pdfenc

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdbundle/internal/dateutil"
	"github.com/alnah/go-mdbundle/internal/imageutil"
	"github.com/alnah/go-mdbundle/internal/layout"
)

// Sentinel errors for encoding failures.
var (
	ErrNoPages      = errors.New("no pages to encode")
	ErrMissingImage = errors.New("image fragment has no backing resource")
	ErrConsistency  = errors.New("cross-reference offsets do not match emitted objects")
)

// Metadata fills the document information dictionary.
type Metadata struct {
	Producer     string
	CreationDate time.Time
}

// baseFonts lists the standard Type1 faces every document carries, in
// resource-name order.
var baseFonts = []struct {
	res  string
	name string
}{
	{"F1", layout.FontBody},
	{"F2", layout.FontBold},
	{"F3", layout.FontItalic},
	{"F4", layout.FontBoldItalic},
	{"F5", layout.FontMono},
}

// Encode renders pages and their image resources into a complete PDF.
// It returns the file bytes and the page count.
func Encode(pages []layout.Page, images map[string]*imageutil.Resource, meta Metadata) ([]byte, int, error) {
	if len(pages) == 0 {
		return nil, 0, ErrNoPages
	}

	e := &encoder{objects: map[int]*object{}}

	catalogID := e.alloc()
	pagesID := e.alloc()

	fontIDs := make(map[string]int, len(baseFonts))
	for _, font := range baseFonts {
		id := e.alloc()
		fontIDs[font.name] = id
		e.set(id, []byte(fmt.Sprintf(
			"<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", font.name)))
	}

	resourcesID := e.alloc()
	imgs, err := e.addImages(pages, images)
	if err != nil {
		return nil, 0, err
	}
	e.set(resourcesID, resourcesDict(fontIDs, imgs))

	kids := make([]int, len(pages))
	for i, page := range pages {
		contentID := e.alloc()
		e.set(contentID, streamObject(deflate(renderContent(page, imgs.byPath))))

		pageID := e.alloc()
		e.set(pageID, []byte(fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %.2f %.2f] /Resources %d 0 R /Contents %d 0 R >>",
			pagesID, page.WidthPt, page.HeightPt, resourcesID, contentID)))
		kids[i] = pageID
	}

	e.set(catalogID, []byte(fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID)))
	e.set(pagesID, pagesDict(kids))

	infoID := e.alloc()
	e.set(infoID, []byte(fmt.Sprintf("<< /Producer (%s) /CreationDate (%s) >>",
		escapeText(meta.Producer), dateutil.FormatPDF(meta.CreationDate))))

	out, err := e.assemble(catalogID, infoID)
	if err != nil {
		return nil, 0, err
	}
	return out, len(pages), nil
}

// object is one numbered PDF object body, everything between the
// "N 0 obj" and "endobj" markers.
type object struct {
	id   int
	body []byte
}

type encoder struct {
	objects map[int]*object
	nextID  int
}

func (e *encoder) alloc() int {
	e.nextID++
	return e.nextID
}

func (e *encoder) set(id int, body []byte) {
	e.objects[id] = &object{id: id, body: body}
}

// imageTable binds canonical image paths to XObject names and object ids
// in first-use order.
type imageTable struct {
	order  []string
	byPath map[string]string
	ids    map[string]int
}

// addImages registers one XObject per distinct image placed on the pages.
// A placed image with no decoded resource is an internal inconsistency
// and fails the encode.
func (e *encoder) addImages(pages []layout.Page, images map[string]*imageutil.Resource) (*imageTable, error) {
	table := &imageTable{byPath: map[string]string{}, ids: map[string]int{}}

	for _, page := range pages {
		for _, frag := range page.Fragments {
			img, ok := frag.(layout.ImageFragment)
			if !ok {
				continue
			}
			if _, seen := table.byPath[img.Path]; seen {
				continue
			}
			res := images[img.Path]
			if res == nil {
				return nil, fmt.Errorf("%w: %s", ErrMissingImage, img.Path)
			}

			id := e.alloc()
			name := fmt.Sprintf("Im%d", len(table.order)+1)
			table.order = append(table.order, img.Path)
			table.byPath[img.Path] = name
			table.ids[img.Path] = id
			e.set(id, imageObject(res))
		}
	}
	return table, nil
}

func imageObject(res *imageutil.Resource) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /%s /BitsPerComponent %d /Filter /%s /Length %d >>\nstream\n",
		res.WidthPx, res.HeightPx, res.ColorSpace, res.BitsPerComp, res.Filter, len(res.Data))
	buf.Write(res.Data)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

func resourcesDict(fontIDs map[string]int, imgs *imageTable) []byte {
	var sb strings.Builder
	sb.WriteString("<< /Font <<")
	for _, font := range baseFonts {
		fmt.Fprintf(&sb, " /%s %d 0 R", font.res, fontIDs[font.name])
	}
	sb.WriteString(" >>")
	if len(imgs.order) > 0 {
		sb.WriteString(" /XObject <<")
		for _, path := range imgs.order {
			fmt.Fprintf(&sb, " /%s %d 0 R", imgs.byPath[path], imgs.ids[path])
		}
		sb.WriteString(" >>")
	}
	sb.WriteString(" >>")
	return []byte(sb.String())
}

func pagesDict(kids []int) []byte {
	var sb strings.Builder
	sb.WriteString("<< /Type /Pages /Kids [")
	for i, id := range kids {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d 0 R", id)
	}
	fmt.Fprintf(&sb, "] /Count %d >>", len(kids))
	return []byte(sb.String())
}

// renderContent writes the drawing operations for one page. Each text
// fragment is its own BT/ET group; images draw under a saved graphics
// state so the placement matrix stays local.
func renderContent(page layout.Page, imageNames map[string]string) []byte {
	var sb strings.Builder
	for _, frag := range page.Fragments {
		switch v := frag.(type) {
		case layout.TextFragment:
			sb.WriteString("BT\n")
			fmt.Fprintf(&sb, "/%s %.2f Tf\n", fontResource(v.Font), v.SizePt)
			fmt.Fprintf(&sb, "%.3f %.3f %.3f rg\n",
				float64(v.Color.R)/255, float64(v.Color.G)/255, float64(v.Color.B)/255)
			fmt.Fprintf(&sb, "%.2f %.2f Td\n", v.XPt, v.YPt)
			fmt.Fprintf(&sb, "(%s) Tj\n", escapeText(v.Text))
			sb.WriteString("ET\n")
		case layout.ImageFragment:
			sb.WriteString("q\n")
			fmt.Fprintf(&sb, "%.2f 0 0 %.2f %.2f %.2f cm\n", v.WidthPt, v.HeightPt, v.XPt, v.YPt)
			fmt.Fprintf(&sb, "/%s Do\n", imageNames[v.Path])
			sb.WriteString("Q\n")
		case layout.RuleFragment:
			fmt.Fprintf(&sb, "%.2f w\n", v.LineWidthPt)
			fmt.Fprintf(&sb, "%.2f %.2f m %.2f %.2f l S\n", v.XPt, v.YPt, v.XPt+v.WidthPt, v.YPt)
		}
	}
	return []byte(sb.String())
}

func fontResource(name string) string {
	for _, font := range baseFonts {
		if font.name == name {
			return font.res
		}
	}
	return baseFonts[0].res
}

func streamObject(data []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Length %d /Filter /FlateDecode >>\nstream\n", len(data))
	buf.Write(data)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

// assemble lays the arena out as a file: header, objects in id order, the
// cross-reference table, and the trailer. The recorded offsets are then
// checked against the buffer itself.
func (e *encoder) assemble(rootID, infoID int) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, e.nextID+1)
	for id := 1; id <= e.nextID; id++ {
		obj := e.objects[id]
		if obj == nil {
			return nil, fmt.Errorf("%w: object %d was never written", ErrConsistency, id)
		}
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", id)
		buf.Write(obj.body)
		buf.WriteString("\nendobj\n")
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", e.nextID+1)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id <= e.nextID; id++ {
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[id], 0)
	}
	fmt.Fprintf(&buf,
		"trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		e.nextID+1, rootID, infoID, xrefOffset)

	out := buf.Bytes()
	for id := 1; id <= e.nextID; id++ {
		marker := []byte(fmt.Sprintf("%d 0 obj", id))
		if !bytes.HasPrefix(out[offsets[id]:], marker) {
			return nil, fmt.Errorf("%w: object %d not at offset %d", ErrConsistency, id, offsets[id])
		}
	}
	return out, nil
}
