package parse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"surplus-scraper/internal/config"
	"surplus-scraper/internal/core/listing"

	"github.com/PuerkitoBio/goquery"
)

// Error indicates markup for one page that could not be minimally parsed.
type Error struct {
	URL    string
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("parse %s: %s", e.URL, e.Reason) }

var (
	itemNoPattern   = regexp.MustCompile(`ItemNo=(\d+)`)
	startRecPattern = regexp.MustCompile(`startRec=(\d+)`)
)

// Parser extracts listing references and records from the catalog's markup.
// Every selector is tied to the site's fixed table-based layout.
type Parser struct {
	base            *url.URL
	pageSize        int
	defaultLocation string
}

func NewParser(cfg config.Config) (*Parser, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Parser{base: base, pageSize: cfg.PageSize, defaultLocation: cfg.DefaultLocation}, nil
}

func (p *Parser) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return p.base.ResolveReference(u).String()
}

// IndexURL builds the paginated all-items URL for the 1-based page number.
// menuID scopes discovery to one category subtree; empty means all items.
func (p *Parser) IndexURL(page int, menuID string) string {
	if menuID == "" {
		menuID = "m"
	}
	startRec := (page-1)*p.pageSize + 1
	return p.resolve(fmt.Sprintf("mAllitems.cfm?menuid=%s&subject=1&startRec=%d", url.QueryEscape(menuID), startRec))
}

// DetailURL builds the canonical detail page URL for an item number.
func (p *Parser) DetailURL(itemID string) string {
	return p.resolve("iinfo.cfm?ItemNo=" + url.QueryEscape(itemID))
}

// ParseIndex extracts listing references from one index page. Malformed rows
// are skipped, never fatal. hasNext is true only when the page yielded a full
// page of items and a further-page pagination control is present.
func (p *Parser) ParseIndex(markup string, page int) (refs []listing.Reference, hasNext bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, false
	}

	rowCount := 0
	doc.Find("td.itemid a.collink0").Each(func(_ int, sel *goquery.Selection) {
		rowCount++
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		m := itemNoPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		refs = append(refs, listing.Reference{ItemID: m[1], URL: p.DetailURL(m[1])})
	})

	hasNext = rowCount >= p.pageSize && p.hasNextControl(doc, page)
	return refs, hasNext
}

// hasNextControl looks for a pagination link pointing past the current page.
func (p *Parser) hasNextControl(doc *goquery.Document, page int) bool {
	nextStart := page*p.pageSize + 1
	found := false
	doc.Find("a[href*='startRec=']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		m := startRecPattern.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		if start, err := strconv.Atoi(m[1]); err == nil && start >= nextStart {
			found = true
			return false
		}
		return true
	})
	return found
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
