package views

import (
	"bytes"
	"strings"
	"testing"

	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func render(t *testing.T, state service.ViewState, tab string) *html.Node {
	t.Helper()
	view := service.BuildResultView(state.Result, service.DefaultLinks())
	view.Activate(tab)

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, NewPage(state, view, "10 MB")))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return out
}

func byID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	}
}

func text(n *html.Node) string {
	var b strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return strings.TrimSpace(b.String())
}

func TestRenderPageWithoutResult(t *testing.T) {
	doc := render(t, service.ViewState{Status: service.StatusIdle}, "")

	assert.Empty(t, findAll(doc, byID("result")), "no tab panel without a result")
	assert.Empty(t, findAll(doc, byID("materials")))

	inputs := findAll(doc, func(n *html.Node) bool {
		v, _ := attr(n, "type")
		return n.Data == "input" && v == "file"
	})
	require.Len(t, inputs, 1)
	accept, _ := attr(inputs[0], "accept")
	assert.Contains(t, accept, ".json")
}

func TestRenderPageAllEmpty(t *testing.T) {
	state := service.ViewState{
		Status: service.StatusSucceeded,
		Result: &models.AnalysisResult{Errors: []string{}, Warnings: []string{}, GoodPractices: []string{}},
	}
	doc := render(t, state, "")

	empties := findAll(doc, func(n *html.Node) bool { return hasClass(n, "empty") })
	require.Len(t, empties, 3)
	assert.Equal(t, "No dangerous issues detected.", text(empties[0]))
	assert.Equal(t, "No warnings detected.", text(empties[1]))
	assert.Equal(t, "No good practices found.", text(empties[2]))

	materials := findAll(doc, byID("materials"))
	require.Len(t, materials, 1)
	assert.Empty(t, findAll(materials[0], func(n *html.Node) bool { return n.Data == "a" }))
}

func TestRenderPageWarningsOnly(t *testing.T) {
	state := service.ViewState{
		Status: service.StatusSucceeded,
		Result: &models.AnalysisResult{Errors: []string{}, Warnings: []string{"w1"}, GoodPractices: []string{}},
		Notice: &service.Notice{Level: service.NoticeSuccess, Title: "Upload Successful"},
	}
	doc := render(t, state, "")

	warnings := findAll(doc, byID("panel-warnings"))
	require.Len(t, warnings, 1)
	items := findAll(warnings[0], func(n *html.Node) bool { return n.Data == "details" })
	require.Len(t, items, 1)
	_, open := attr(items[0], "open")
	assert.True(t, open)
	summary := findAll(items[0], func(n *html.Node) bool { return n.Data == "summary" })
	assert.Equal(t, "Warning #1", text(summary[0]))
	assert.Contains(t, text(items[0]), "w1")

	danger := findAll(doc, byID("panel-danger"))
	assert.Equal(t, "No dangerous issues detected.", text(danger[0]))
	good := findAll(doc, byID("panel-good"))
	assert.Equal(t, "No good practices found.", text(good[0]))

	tab := findAll(doc, byID("tab-danger"))
	_, checked := attr(tab[0], "checked")
	assert.True(t, checked, "first tab is active by default")
}

func TestRenderPageOnlyFirstItemOpenAndTabSelection(t *testing.T) {
	state := service.ViewState{
		Result: &models.AnalysisResult{Errors: []string{"e1", "<script>alert(1)</script>"}, Warnings: []string{}, GoodPractices: []string{"g1"}},
	}
	doc := render(t, state, "good")

	items := findAll(findAll(doc, byID("panel-danger"))[0], func(n *html.Node) bool { return n.Data == "details" })
	require.Len(t, items, 2)
	_, firstOpen := attr(items[0], "open")
	_, secondOpen := attr(items[1], "open")
	assert.True(t, firstOpen)
	assert.False(t, secondOpen)
	assert.Contains(t, text(items[1]), "<script>", "item bodies are escaped text")

	_, dangerChecked := attr(findAll(doc, byID("tab-danger"))[0], "checked")
	_, goodChecked := attr(findAll(doc, byID("tab-good"))[0], "checked")
	assert.False(t, dangerChecked)
	assert.True(t, goodChecked)

	links := findAll(findAll(doc, byID("materials"))[0], func(n *html.Node) bool { return n.Data == "a" })
	require.Len(t, links, 2)
	assert.Equal(t, "About JSON", text(links[0]))
	assert.Equal(t, "Common JSON Mistakes and How to Avoid Them", text(links[1]))
}

func TestRenderPageBlockingNoticeShowsOverlay(t *testing.T) {
	state := service.ViewState{
		Status: service.StatusInFlight,
		Notice: &service.Notice{Level: service.NoticeInfo, Title: "Uploading File...", Blocking: true},
	}
	doc := render(t, state, "")

	overlay := findAll(doc, byID("overlay"))
	require.Len(t, overlay, 1)
	assert.True(t, hasClass(overlay[0], "active"))
}
