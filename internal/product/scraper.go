// Package product scrapes retail product pages into structured details the
// script agent can work from.
package product

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"demoscript/pkg/httputil"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.93 Safari/537.36"

// hiRes image URLs live in the image block bootstrap script, not the DOM
var hiResPattern = regexp.MustCompile(`"hiRes":"(https[^"]+)"`)

// Details holds everything extracted from a product page. Fields missing
// from the page stay empty rather than failing the scrape.
type Details struct {
	Title        string            `json:"title"`
	Price        string            `json:"price"`
	Rating       string            `json:"rating"`
	ReviewCount  string            `json:"number_of_reviews"`
	Availability string            `json:"availability"`
	Brand        string            `json:"brand"`
	Description  string            `json:"product_description"`
	Specs        map[string]string `json:"product_details"`
	Images       []string          `json:"images"`
}

type Scraper struct {
	client *httputil.RetryClient
}

func NewScraper(client *http.Client) *Scraper {
	return &Scraper{
		client: httputil.NewRetryClient(client, httputil.DefaultRetryConfig()),
	}
}

// Scrape fetches a product page and extracts its details. Retail sites
// serve a stripped page to non-browser agents, so the request carries a
// desktop User-Agent.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Details, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return extract(doc), nil
}

func extract(doc *goquery.Document) *Details {
	d := &Details{
		Title:        text(doc, "#productTitle"),
		Price:        text(doc, ".a-price .a-offscreen"),
		Rating:       text(doc, "span.a-icon-alt"),
		ReviewCount:  text(doc, "#acrCustomerReviewText"),
		Availability: text(doc, "#availability span"),
		Brand:        text(doc, "#bylineInfo"),
		Specs:        map[string]string{},
	}

	if d.Description = text(doc, "#productDescription p"); d.Description == "" {
		d.Description = text(doc, "#productDescription")
	}

	doc.Find("#productDetails_techSpec_section_1 tr, #productDetails_detailBullets_sections1 tr").
		Each(func(_ int, row *goquery.Selection) {
			heading := strings.TrimSpace(row.Find("th").First().Text())
			value := strings.TrimSpace(row.Find("td").Last().Text())
			if heading != "" && value != "" {
				d.Specs[heading] = value
			}
		})

	d.Images = imageURLs(doc)
	return d
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// imageURLs pulls the hi-res gallery URLs out of the page's image bootstrap
// script, deduplicated in first-seen order.
func imageURLs(doc *goquery.Document) []string {
	var urls []string
	seen := make(map[string]bool)

	doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		body := script.Text()
		if !strings.Contains(body, "ImageBlockATF") {
			return
		}
		for _, match := range hiResPattern.FindAllStringSubmatch(body, -1) {
			if !seen[match[1]] {
				seen[match[1]] = true
				urls = append(urls, match[1])
			}
		}
	})

	return urls
}
