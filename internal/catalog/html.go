package catalog

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"mercari/shopper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

var hrefCategoryIDRegex = regexp.MustCompile(`(?:[?&]category_id=|/categories/)(\d+)`)

// ParseHTML builds a catalog from a nested category listing:
//
//	<ul>
//	  <li><a href="/search?category_id=1">レディース</a>
//	    <ul><li><a href="/search?category_id=2">トップス</a></li></ul>
//	  </li>
//	</ul>
//
// The outermost list not nested in another list item is the root. An explicit
// data-category-id attribute on the anchor or the list item wins over the href.
func ParseHTML(r io.Reader) (*Catalog, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Empty(), fmt.Errorf("%w: failed to parse HTML: %v", ErrMalformed, err)
	}

	root := doc.Find("ul").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("li").Length() == 0
	}).First()

	if root.Length() == 0 {
		return Empty(), fmt.Errorf("%w: no category list found", ErrMalformed)
	}

	nodes := extractNodes(root)
	if len(nodes) == 0 {
		return Empty(), fmt.Errorf("%w: category list has no linked entries", ErrMalformed)
	}

	log.Debugf("Parsed %d top-level categories from HTML", len(nodes))
	return New(nodes), nil
}

func extractNodes(list *goquery.Selection) []domain.CategoryNode {
	nodes := make([]domain.CategoryNode, 0)

	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		link := li.ChildrenFiltered("a").First()
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}

		id := categoryIDFromSelection(li, link)
		if id == "" {
			log.Debugf("Skipping category %q without id", name)
			return
		}

		nodes = append(nodes, domain.CategoryNode{
			Name:     name,
			ID:       id,
			Children: extractNodes(li.ChildrenFiltered("ul").First()),
		})
	})

	return nodes
}

func categoryIDFromSelection(li, link *goquery.Selection) string {
	if id, ok := link.Attr("data-category-id"); ok && id != "" {
		return id
	}
	if id, ok := li.Attr("data-category-id"); ok && id != "" {
		return id
	}

	href, ok := link.Attr("href")
	if !ok {
		return ""
	}

	if matches := hrefCategoryIDRegex.FindStringSubmatch(href); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
