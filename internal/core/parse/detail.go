package parse

import (
	"regexp"
	"strings"

	"surplus-scraper/internal/core/listing"

	"github.com/PuerkitoBio/goquery"
)

var (
	titleQuantityPattern = regexp.MustCompile(`(?i)^\d+\s+(Offered|Wanted)\s+at.*`)
	imageExtPattern      = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|webp)`)
)

// navigation entries that show up among the breadcrumb links
var categoryNavItems = map[string]struct{}{
	"View":            {},
	"Search-by-Specs": {},
}

// ParseDetail extracts a normalized record from one listing's detail markup.
// Field extraction is independent: a missing field yields its default and the
// remaining fields are still parsed. It fails only when the document is
// entirely unparseable.
func (p *Parser) ParseDetail(markup string, ref listing.Reference) (listing.Record, error) {
	rec := listing.Record{
		ItemID:   ref.ItemID,
		URL:      ref.URL,
		Location: p.defaultLocation,
		Pictures: []string{},
	}

	if strings.TrimSpace(markup) == "" {
		return rec, &Error{URL: ref.URL, Reason: "empty document"}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return rec, &Error{URL: ref.URL, Reason: err.Error()}
	}

	rec.Title = p.parseTitle(doc)
	rec.ListingType = parseListingType(doc)
	rec.Description = parseDescription(doc)
	rec.Pictures = p.parsePictures(doc)
	rec.Category = parseCategory(doc)

	fields := parseLabelTable(doc)
	rec.Manufacturer = fields["manufacturer"]
	rec.Model = fields["model"]
	rec.YearOfManufacturer = fields["year of manufacture"]
	rec.Condition = fields["condition"]

	return rec, nil
}

func (p *Parser) parseTitle(doc *goquery.Document) string {
	// Primary: the listing headline.
	if sel := doc.Find("h1.HL1 span.HL1").First(); sel.Length() > 0 {
		title := titleQuantityPattern.ReplaceAllString(strings.TrimSpace(sel.Text()), "")
		if title = normalizeSpace(title); title != "" {
			return title
		}
	}

	// Fallback: the page <title>, minus the site name.
	if sel := doc.Find("title").First(); sel.Length() > 0 {
		title := strings.ReplaceAll(sel.Text(), "Infineon Technologies AG - Equipment Trade", "")
		title = strings.Trim(normalizeSpace(title), " -")
		if title != "" {
			return title
		}
	}

	// Last resort: the first substantial bold run.
	title := ""
	doc.Find("b, strong").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := normalizeSpace(sel.Text())
		lower := strings.ToLower(text)
		if len(text) > 10 && !strings.Contains(lower, "offered") && !strings.Contains(lower, "wanted") {
			title = text
			return false
		}
		return true
	})
	return title
}

func parseListingType(doc *goquery.Document) string {
	text := strings.ToLower(doc.Find("h2.HL span.HL").First().Text())
	switch {
	case strings.Contains(text, "offered"):
		return "For Sale"
	case strings.Contains(text, "wanted"):
		return "Wanted"
	}
	return ""
}

func parseDescription(doc *goquery.Document) string {
	desc := ""
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := normalizeSpace(sel.Text())
		if len(text) > 20 && !strings.Contains(strings.ToLower(text), "copyright") {
			desc = text
			return false
		}
		return true
	})
	return desc
}

// parsePictures collects every distinct product image in document order: the
// main preview image, the additional-image links, then any remaining gallery
// images under clientresources. Query strings are stripped before resolving
// against the base URL.
func (p *Parser) parsePictures(doc *goquery.Document) []string {
	pictures := []string{}
	seen := map[string]struct{}{}

	add := func(src string) {
		src = strings.SplitN(src, "?", 2)[0]
		if src == "" {
			return
		}
		if _, ok := seen[src]; ok {
			return
		}
		seen[src] = struct{}{}
		pictures = append(pictures, p.resolve(src))
	}

	if src, ok := doc.Find("img.imgprev").First().Attr("src"); ok {
		add(src)
	}
	doc.Find("a.addlImage").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			add(href)
		}
	})
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			return
		}
		if strings.Contains(strings.ToLower(src), "clientresources") && imageExtPattern.MatchString(src) {
			add(src)
		}
	})

	return pictures
}

func parseCategory(doc *goquery.Document) string {
	var crumbs []string
	doc.Find("a.menubar").Each(func(_ int, sel *goquery.Selection) {
		text := normalizeSpace(sel.Text())
		if text == "" {
			return
		}
		if _, nav := categoryNavItems[text]; nav {
			return
		}
		crumbs = append(crumbs, text)
	})
	return strings.Join(crumbs, " > ")
}

// parseLabelTable reads the site's label/value rows (td.txtb labels next to
// td.txt values) into a lowercase-label map.
func parseLabelTable(doc *goquery.Document) map[string]string {
	fields := map[string]string{}
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}

		labelCell := cells.Eq(0)
		label := labelCell.Find(".txtb").First()
		labelText := label.Text()
		if label.Length() == 0 {
			labelText = labelCell.Text()
		}
		labelText = strings.ToLower(normalizeSpace(labelText))

		valueCell := cells.Eq(1)
		value := valueCell.Find(".txt").First()
		valueText := value.Text()
		if value.Length() == 0 {
			valueText = valueCell.Text()
		}
		valueText = normalizeSpace(valueText)

		// Later rows overwrite earlier ones when a label repeats.
		if labelText != "" && valueText != "" {
			fields[labelText] = valueText
		}
	})
	return fields
}
