package service

import (
	"fmt"

	"json_script_analyzer/internal/domain/models"
)

// Link is a supplementary reading link tied to a category.
type Link struct {
	Category models.Category `json:"-" yaml:"-"`
	Title    string          `json:"title" yaml:"title"`
	URL      string          `json:"url" yaml:"url"`
}

// LinkSet holds the URLs of the supplementary reading links.
type LinkSet struct {
	AboutJSON      string
	GoodPractices  string
	CommonMistakes string
}

func DefaultLinks() LinkSet {
	return LinkSet{
		AboutJSON:      `https://www.json.org/json-en.html`,
		GoodPractices:  `https://google.github.io/styleguide/jsoncstyleguide.xml`,
		CommonMistakes: `https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Errors/JSON_bad_parse`,
	}
}

// Override replaces the links whose replacement is non-empty.
func (l LinkSet) Override(aboutJSON, goodPractices, commonMistakes string) LinkSet {
	if aboutJSON != "" {
		l.AboutJSON = aboutJSON
	}
	if goodPractices != "" {
		l.GoodPractices = goodPractices
	}
	if commonMistakes != "" {
		l.CommonMistakes = commonMistakes
	}
	return l
}

func (l LinkSet) links() []Link {
	return []Link{
		{Category: models.CategoryDanger, Title: `About JSON`, URL: l.AboutJSON},
		{Category: models.CategoryWarning, Title: `Good Practices for Working with JSON`, URL: l.GoodPractices},
		{Category: models.CategoryGoodPractice, Title: `Common JSON Mistakes and How to Avoid Them`, URL: l.CommonMistakes},
	}
}

type Item struct {
	Index    int    `json:"index" yaml:"index"`
	Title    string `json:"title" yaml:"title"`
	Body     string `json:"body" yaml:"body"`
	Expanded bool   `json:"expanded" yaml:"expanded"`
}

type Panel struct {
	Category     models.Category `json:"-" yaml:"-"`
	Key          string          `json:"key" yaml:"key"`
	Tab          string          `json:"tab" yaml:"tab"`
	Items        []Item          `json:"items" yaml:"items"`
	Empty        bool            `json:"empty" yaml:"empty"`
	EmptyMessage string          `json:"empty_message,omitempty" yaml:"empty_message,omitempty"`
}

// ResultView is everything needed to render an AnalysisResult.
type ResultView struct {
	Panels      []Panel `json:"panels" yaml:"panels"`
	ActivePanel int     `json:"active_panel" yaml:"active_panel"`
	Links       []Link  `json:"links" yaml:"links"`
}

// BuildResultView derives the view of result. It returns nil for a nil result.
func BuildResultView(result *models.AnalysisResult, links LinkSet) *ResultView {
	if result == nil {
		return nil
	}

	view := &ResultView{ActivePanel: 0}
	for _, c := range models.Categories() {
		items := c.Items(result)
		panel := Panel{
			Category: c,
			Key:      c.TabKey(),
			Tab:      c.TabLabel(),
			Items:    make([]Item, 0, len(items)),
			Empty:    len(items) == 0,
		}
		if panel.Empty {
			panel.EmptyMessage = c.EmptyMessage()
		}
		for i, body := range items {
			panel.Items = append(panel.Items, Item{
				Index:    i + 1,
				Title:    fmt.Sprintf(`%s #%d`, c.Label(), i+1),
				Body:     body,
				Expanded: i == 0,
			})
		}
		view.Panels = append(view.Panels, panel)
	}

	view.Links = []Link{}
	for _, l := range links.links() {
		if len(l.Category.Items(result)) > 0 {
			view.Links = append(view.Links, l)
		}
	}
	return view
}

// Activate selects the panel with the given tab key; unknown keys keep the current panel.
func (v *ResultView) Activate(key string) {
	if v == nil {
		return
	}
	for i, p := range v.Panels {
		if p.Key == key {
			v.ActivePanel = i
			return
		}
	}
}
