package report

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PPTX is an OPC zip of XML parts. There is no presentation library in the
// Go ecosystem worth the dependency, so the deck is written directly:
// a slide master/layout pair, a theme, and one slide part per section.

// EMU per inch; slide size is the classic 10 x 7.5 in.
const (
	emuPerInch = 914400
	slideCX    = 10 * emuPerInch
	slideCY    = 75 * emuPerInch / 10
)

// tableSplitThreshold is the row count beyond which the top-items table is
// split across two slides.
const tableSplitThreshold = 5

type slide struct {
	xml    string
	images []string // chart files embedded by this slide, rId order
}

// BuildPPTX writes the PowerPoint report: title slide, key metrics, one
// slide per chart, and the top-N detail table (split when long).
func BuildPPTX(ctx *Context, path string) error {
	var slides []slide
	slides = append(slides, titleSlide(ctx))
	slides = append(slides, metricsSlide(ctx))
	for _, ref := range ctx.Charts.Existing() {
		slides = append(slides, chartSlide(ref))
	}
	slides = append(slides, tableSlides(ctx)...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PPTX %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := writeDeck(zw, ctx, slides); err != nil {
		zw.Close()
		return fmt.Errorf("failed to assemble PPTX %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish PPTX %s: %w", path, err)
	}
	return nil
}

func writeDeck(zw *zip.Writer, ctx *Context, slides []slide) error {
	addPart := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, xmlHeader+content)
		return err
	}

	if err := addPart("[Content_Types].xml", contentTypes(len(slides))); err != nil {
		return err
	}
	if err := addPart("_rels/.rels", rootRels); err != nil {
		return err
	}
	if err := addPart("docProps/core.xml", coreProps(ctx)); err != nil {
		return err
	}
	if err := addPart("docProps/app.xml", appProps); err != nil {
		return err
	}
	if err := addPart("ppt/presentation.xml", presentationXML(len(slides))); err != nil {
		return err
	}
	if err := addPart("ppt/_rels/presentation.xml.rels", presentationRels(len(slides))); err != nil {
		return err
	}
	if err := addPart("ppt/slideMasters/slideMaster1.xml", slideMasterXML); err != nil {
		return err
	}
	if err := addPart("ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels); err != nil {
		return err
	}
	if err := addPart("ppt/slideLayouts/slideLayout1.xml", slideLayoutXML); err != nil {
		return err
	}
	if err := addPart("ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels); err != nil {
		return err
	}
	if err := addPart("ppt/theme/theme1.xml", themeXML); err != nil {
		return err
	}

	imageIndex := 1
	for i, s := range slides {
		if err := addPart(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), s.xml); err != nil {
			return err
		}
		rels, nextIndex, err := slideRels(zw, s, imageIndex)
		if err != nil {
			return err
		}
		imageIndex = nextIndex
		if err := addPart(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels); err != nil {
			return err
		}
	}
	return nil
}

// slideRels writes the slide's media into the archive and returns its
// relationship part. rId1 is always the layout; images follow.
func slideRels(zw *zip.Writer, s slide, imageIndex int) (string, int, error) {
	var b strings.Builder
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	for j, img := range s.images {
		data, err := os.ReadFile(img)
		if err != nil {
			return "", imageIndex, fmt.Errorf("failed to read chart image %s: %w", img, err)
		}
		name := fmt.Sprintf("ppt/media/image%d.png", imageIndex)
		w, err := zw.Create(name)
		if err != nil {
			return "", imageIndex, err
		}
		if _, err := w.Write(data); err != nil {
			return "", imageIndex, err
		}
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/>`,
			j+2, imageIndex)
		imageIndex++
	}
	b.WriteString(`</Relationships>`)
	return b.String(), imageIndex, nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func esc(s string) string { return xmlEscaper.Replace(s) }

func inches(v float64) int64 { return int64(v * emuPerInch) }

// --- slide construction ---

func titleSlide(ctx *Context) slide {
	body := textBox(2, "Title", 0.5, 2.4, 9.0, 1.4, esc(ctx.Title), 4000, true) +
		textBox(3, "Subtitle", 0.5, 3.9, 9.0, 0.8,
			"Generated: "+ctx.GeneratedAt.Format("02.01.2006 15:04"), 1800, false)
	return slide{xml: slideXML(body)}
}

func metricsSlide(ctx *Context) slide {
	body := textBox(2, "Title", 0.5, 0.4, 9.0, 1.0, "Key metrics", 2400, true) +
		bulletBox(3, "Metrics", 0.8, 1.8, 8.4, 3.6, ctx.SummaryLines(), 1800)
	return slide{xml: slideXML(body)}
}

func chartSlide(ref ChartRef) slide {
	body := textBox(2, "Title", 0.5, 0.4, 9.0, 1.0, esc(ref.Title), 2400, true) +
		picture(3, 2, 0.5, 1.5, 9.0, 5.0)
	return slide{xml: slideXML(body), images: []string{ref.Path}}
}

// tableSlides renders the top-items detail table, mirroring the two-part
// split of long tables in the original deck layout.
func tableSlides(ctx *Context) []slide {
	items := ctx.Metrics.TopItems
	if len(items) == 0 {
		return nil
	}
	if len(items) <= tableSplitThreshold {
		body := textBox(2, "Title", 0.5, 0.4, 9.0, 1.0, "Top items detail", 2400, true) +
			itemsTable(3, ctx, 0, len(items))
		return []slide{{xml: slideXML(body)}}
	}
	mid := len(items) / 2
	first := textBox(2, "Title", 0.5, 0.4, 9.0, 1.0, "Top items detail (part 1)", 2400, true) +
		itemsTable(3, ctx, 0, mid)
	second := textBox(2, "Title", 0.5, 0.4, 9.0, 1.0, "Top items detail (part 2)", 2400, true) +
		itemsTable(3, ctx, mid, len(items))
	return []slide{{xml: slideXML(first)}, {xml: slideXML(second)}}
}

func slideXML(shapes string) string {
	return `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
		shapes +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}

func shapeFrame(x, y, w, h float64) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`,
		inches(x), inches(y), inches(w), inches(h))
}

// textBox emits a single-paragraph text shape. Size is in hundredths of a
// point, as DrawingML wants it.
func textBox(id int, name string, x, y, w, h float64, escapedText string, size int, bold bool) string {
	b := "0"
	if bold {
		b = "1"
	}
	return fmt.Sprintf(
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr>%s</p:spPr>`+
			`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" sz="%d" b="%s"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, name, shapeFrame(x, y, w, h), size, b, escapedText)
}

// bulletBox emits one paragraph per line, bulleted.
func bulletBox(id int, name string, x, y, w, h float64, lines []string, size int) string {
	var paras strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&paras,
			`<a:p><a:pPr><a:buChar char="•"/></a:pPr><a:r><a:rPr lang="en-US" sz="%d"/><a:t>%s</a:t></a:r></a:p>`,
			size, esc(line))
	}
	return fmt.Sprintf(
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr>%s</p:spPr>`+
			`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>%s</p:txBody></p:sp>`,
		id, name, shapeFrame(x, y, w, h), paras.String())
}

// picture references slide relationship rId<rel>.
func picture(id, rel int, x, y, w, h float64) string {
	return fmt.Sprintf(
		`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Chart"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
			`<p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
			`<p:spPr>%s</p:spPr></p:pic>`,
		id, rel, shapeFrame(x, y, w, h))
}

func itemsTable(id int, ctx *Context, from, to int) string {
	items := ctx.Metrics.TopItems[from:to]
	var rows strings.Builder
	rows.WriteString(tableRow([]string{"Item", "Amount"}, true))
	for _, item := range items {
		rows.WriteString(tableRow([]string{item.Name, Money(item.Amount)}, false))
	}
	return fmt.Sprintf(
		`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Top items"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
			`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
			`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`+
			`<a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid><a:gridCol w="%d"/><a:gridCol w="%d"/></a:tblGrid>%s</a:tbl>`+
			`</a:graphicData></a:graphic></p:graphicFrame>`,
		id, inches(1.0), inches(1.5), inches(8.0), inches(4.5),
		inches(5.5), inches(2.5), rows.String())
}

func tableRow(cells []string, header bool) string {
	b := "0"
	if header {
		b = "1"
	}
	var row strings.Builder
	row.WriteString(`<a:tr h="370840">`)
	for _, cell := range cells {
		fmt.Fprintf(&row,
			`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" b="%s"/><a:t>%s</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>`,
			b, esc(cell))
	}
	row.WriteString(`</a:tr>`)
	return row.String()
}

// --- fixed parts ---

func contentTypes(slides int) string {
	var b strings.Builder
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slides; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

func coreProps(ctx *Context) string {
	return `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + esc(ctx.Title) + `</dc:title>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + ctx.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z") + `</dcterms:created>` +
		`</cp:coreProperties>`
}

const appProps = `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>salesreport</Application>` +
	`</Properties>`

func presentationXML(slides int) string {
	var b strings.Builder
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slides; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/>`, slideCX, slideCY, slideCY, slideCX)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRels(slides int) string {
	var b strings.Builder
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= slides; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
	}
	fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>`, slides+2)
	b.WriteString(`</Relationships>`)
	return b.String()
}

const slideMasterXML = `<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
	`</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = `<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank">` +
	`<p:cSld><p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const slideLayoutRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const themeXML = `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="salesreport">` +
	`<a:themeElements>` +
	`<a:clrScheme name="salesreport">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F3864"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="EEECE1"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="2E86AB"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="A23B72"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="F18F01"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="C73E1D"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="3B1F2B"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="44BBA4"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="salesreport">` +
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="salesreport">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst><a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements></a:theme>`
