package server

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed assets/dashboard.html
var dashboardHTML []byte

var (
	dashboardOnce sync.Once
	dashboardDoc  *html.Node
	dashboardErr  error
)

// parsedDashboard parses the embedded page once; each request renders a
// nonce-stamped clone.
func parsedDashboard() (*html.Node, error) {
	dashboardOnce.Do(func() {
		dashboardDoc, dashboardErr = html.Parse(bytes.NewReader(dashboardHTML))
	})
	return dashboardDoc, dashboardErr
}

// renderDashboard writes the page with nonce set on every inline script and
// style element.
func renderDashboard(nonce string) ([]byte, error) {
	doc, err := parsedDashboard()
	if err != nil {
		return nil, err
	}

	page := cloneNode(doc)
	if nonce != "" {
		stampNonce(page, nonce)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stampNonce(n *html.Node, nonce string) {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		n.Attr = append(withoutAttr(n.Attr, "nonce"), html.Attribute{Key: "nonce", Val: nonce})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stampNonce(c, nonce)
	}
}

func withoutAttr(attrs []html.Attribute, key string) []html.Attribute {
	out := attrs[:0:0]
	for _, a := range attrs {
		if a.Key != key {
			out = append(out, a)
		}
	}
	return out
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page, err := renderDashboard(GetNonceFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
