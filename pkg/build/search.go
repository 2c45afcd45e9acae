package build

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// SearchIndexFile name of the local search index in the output root
const SearchIndexFile = "search-index.json"

type (
	// SearchIndex local search documents, one per page section
	SearchIndex struct {
		Documents []SearchDocument `json:"documents"`
	}

	SearchDocument struct {
		ID     string   `json:"id"`
		Route  string   `json:"route"`
		Title  string   `json:"title"`
		Titles []string `json:"titles"`
		Text   string   `json:"text"`
	}
)

var headingLevels = map[string]int{"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6}

// Sort orders documents by id
func (s *SearchIndex) Sort() {
	sort.SliceStable(s.Documents, func(i, j int) bool {
		return s.Documents[i].ID < s.Documents[j].ID
	})
}

// sections splits the rendered article into one search document per heading.
// Text before the first heading belongs to the page itself.
func sections(route, title, article string) ([]SearchDocument, error) {
	root, err := html.Parse(strings.NewReader(article))
	if err != nil {
		return nil, err
	}

	var (
		ret     []SearchDocument
		titles  []string
		levels  []int
		current = &SearchDocument{ID: route, Route: route, Title: title}
		text    strings.Builder
	)
	flush := func() {
		current.Text = strings.Join(strings.Fields(text.String()), " ")
		if current.Text != "" || current.ID != route {
			ret = append(ret, *current)
		}
		text.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level, ok := headingLevels[n.Data]; ok {
				flush()
				heading := strings.Join(strings.Fields(nodeText(n)), " ")
				for len(levels) > 0 && levels[len(levels)-1] >= level {
					levels = levels[:len(levels)-1]
					titles = titles[:len(titles)-1]
				}
				id := route
				if anchor := attr(n, "id"); anchor != "" {
					id = route + "#" + anchor
				}
				current = &SearchDocument{
					ID:     id,
					Route:  route,
					Title:  heading,
					Titles: append([]string{}, titles...),
				}
				levels = append(levels, level)
				titles = append(titles, heading)
				return
			}
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	flush()
	return ret, nil
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
