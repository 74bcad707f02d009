package scraper

// SelectorEntry is one candidate selector and the category it was listed under.
// The category is informational; ranking only looks at the selector.
type SelectorEntry struct {
	Category string
	Selector string
}

// Category names
const (
	CategoryHeadings       = "headings"
	CategoryArticle        = "article"
	CategoryNews           = "news"
	CategoryBlog           = "blog"
	CategoryVideo          = "video"
	CategorySocial         = "social"
	CategoryProduct        = "product"
	CategoryComic          = "comic"
	CategoryGeneric        = "generic"
	CategoryDataAttributes = "dataAttributes"
	CategoryLinks          = "links"
	CategoryQuick          = "quick"
)

type selectorGroup struct {
	category  string
	selectors []string
}

// titleSelectorGroups is the categorised title selector table, in catalog order.
var titleSelectorGroups = []selectorGroup{
	{CategoryHeadings, []string{"h1", "h2", "h3", "h4"}},
	{CategoryArticle, []string{
		"article h1",
		"article h2",
		"article .title",
		"article .headline",
		"[class*='article'] h1",
		"[class*='article'] h2",
		"[class*='Article'] h1",
		"[class*='headline']",
		"[class*='Headline']",
		".entry-title",
		".post-title",
		".story-title",
		"[class*='story'] h1",
		"[class*='story-body'] h1",
		"[data-testid='article-body'] h1",
		"[data-testid*='card'] a",
	}},
	{CategoryNews, []string{
		"a[href*='/news/']",
		"a[href*='/news/articles/']",
		"a[href*='/article/']",
		"[class*='PagePromo'] a",
		"[class*='story'] a",
		".fxs_headline_tiny",
		".fxs_entryHeadline a",
		"[class*='headline'] a",
	}},
	{CategoryBlog, []string{
		".blog-title",
		".entry-title",
		".post-title",
		"[class*='post'] h1",
		"[class*='post'] h2",
		"[class*='entry'] h1",
		"[class*='entry'] h2",
		"a[href*='/li/']",
		".ranking-list a",
		".list-item a",
		"h1 > a[href*='archives']",
	}},
	{CategoryVideo, []string{
		"#video-title",
		"a#video-title-link",
		"ytd-rich-item-renderer #video-title",
		"a[href*='watch'] #video-title",
	}},
	{CategorySocial, []string{
		"[data-testid='tweetText']",
		"article[data-testid='tweet'] [data-testid='tweetText']",
		"a[href*='/status/']",
	}},
	{CategoryProduct, []string{
		".product-title",
		".item-title",
		"[class*='product'] h1",
		"[class*='product'] h2",
		"h2.a-size-medium span",
		"div[data-component-type='s-search-result'] h2 span",
		".grid h3",
		".grid.grid-cols-3 h3",
		"[class*='hover:text-primary']",
	}},
	{CategoryComic, []string{
		"a[href*='/magazine/'] span",
		".post-list-image + span",
		"[class*='text-gray-100']",
		"h3[class*='hover:text-primary']",
	}},
	{CategoryGeneric, []string{
		".title",
		".heading",
		".header",
		"[class*='title']",
		"[class*='Title']",
		"[class*='heading']",
		"[class*='Heading']",
		"span.title",
		"div.title",
		"a.title",
		"strong a",
		".box_body h1",
		".tweet_box h1",
	}},
	{CategoryDataAttributes, []string{
		"[data-title]",
		"[data-headline]",
		"[data-testid*='title']",
		"[data-testid*='headline']",
		"[data-component-type*='title']",
	}},
	{CategoryLinks, []string{
		"a[href] h1",
		"a[href] h2",
		"a[href] h3",
		"a[href] span",
		"a[href] .title",
		"article a",
		"[class*='card'] a",
		"[class*='Card'] a",
		"li a",
		"ul li a",
	}},
}

// quickSelectors is the short list used for a fast first look at a page.
var quickSelectors = []string{
	"[title]",
	"h1",
	"h2",
	"h3",
	"article h1",
	".entry-title",
	".post-title",
	"[class*='title']",
	"[class*='headline']",
	"[class*='card'] a",
}

// Catalog is an immutable, ordered list of selector entries. Order is the
// ranking tie-break, so it never changes after construction.
type Catalog struct {
	entries []SelectorEntry
}

var (
	fullCatalog  = newCatalog(titleSelectorGroups)
	quickCatalog = newCatalog([]selectorGroup{{CategoryQuick, quickSelectors}})
)

// FullCatalog returns the categorised title selector catalog.
func FullCatalog() Catalog { return fullCatalog }

// QuickCatalog returns the ten-selector catalog.
func QuickCatalog() Catalog { return quickCatalog }

// CatalogByName resolves a --catalog value.
func CatalogByName(name string) (Catalog, bool) {
	switch name {
	case "", "full":
		return fullCatalog, true
	case "quick":
		return quickCatalog, true
	}
	return Catalog{}, false
}

// NewCatalog builds a catalog from explicit selectors, mainly for tests and
// callers probing a hand-picked list.
func NewCatalog(selectors ...string) Catalog {
	return newCatalog([]selectorGroup{{"custom", selectors}})
}

// newCatalog flattens groups in order, keeping the first occurrence of a
// selector listed under more than one category.
func newCatalog(groups []selectorGroup) Catalog {
	seen := make(map[string]bool)
	var entries []SelectorEntry
	for _, g := range groups {
		for _, sel := range g.selectors {
			if seen[sel] {
				continue
			}
			seen[sel] = true
			entries = append(entries, SelectorEntry{Category: g.category, Selector: sel})
		}
	}
	return Catalog{entries: entries}
}

// Len returns the number of entries.
func (c Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in catalog order.
func (c Catalog) Entries() []SelectorEntry {
	out := make([]SelectorEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Selectors returns the selectors in catalog order.
func (c Catalog) Selectors() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Selector
	}
	return out
}

// Categories returns the category names in first-seen order.
func (c Catalog) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range c.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}
