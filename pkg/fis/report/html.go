package report

import (
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/fis/pkg/fis/store"
)

// RenderHTML writes a standalone HTML page with one section per run
func RenderHTML(w io.Writer, runs ...store.Run) error {
	body := elem(atom.Body, nil, elem(atom.H1, nil, text("Fuzzy inference runs")))
	for _, r := range runs {
		body.AppendChild(runSection(r))
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(elem(atom.Html, nil,
		elem(atom.Head, nil,
			elem(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
			elem(atom.Title, nil, text("Fuzzy inference runs")),
		),
		body,
	))
	return html.Render(w, doc)
}

func runSection(r store.Run) *html.Node {
	title := "Run " + r.ID
	if r.Source != "" {
		title += " (" + r.Source + ")"
	}
	section := elem(atom.Section, []html.Attribute{{Key: "id", Val: "run-" + r.ID}},
		elem(atom.H2, nil, text(title)),
	)

	inputs := table([]string{"Variable", "Value"})
	for _, name := range sortedKeys(r.Inputs) {
		inputs.AppendChild(row(name, formatFloat(r.Inputs[name])))
	}
	section.AppendChild(elem(atom.H3, nil, text("Inputs")))
	section.AppendChild(inputs)

	firings := table([]string{"#", "Rule", "Output", "Degree", "Function after"})
	for _, f := range r.Firings {
		firings.AppendChild(row(strconv.Itoa(f.Index+1), f.Rule, f.Output, formatFloat(f.Degree), describe(f.Function)))
	}
	section.AppendChild(elem(atom.H3, nil, text("Rules")))
	section.AppendChild(firings)

	outputs := table([]string{"Variable", "Value", "Function"})
	for _, o := range r.Outputs {
		outputs.AppendChild(row(o.Variable, o.Label, describe(o.Function)))
	}
	section.AppendChild(elem(atom.H3, nil, text("Outputs")))
	section.AppendChild(outputs)

	return section
}

func table(headers []string) *html.Node {
	head := elem(atom.Tr, nil)
	for _, h := range headers {
		head.AppendChild(elem(atom.Th, nil, text(h)))
	}
	return elem(atom.Table, nil, head)
}

func row(cells ...string) *html.Node {
	tr := elem(atom.Tr, nil)
	for _, c := range cells {
		tr.AppendChild(elem(atom.Td, nil, text(c)))
	}
	return tr
}

func elem(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
