package news

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/YosoyAryan/it-financial-dashboard/app/cfg"
)

const (
	feedTitle       = "IT Tech News"
	feedDescription = "IT sector news with article summaries and sentiment"
)

// Generator renders aggregated items as an RSS 2.0 document.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(items []Item, builtAt time.Time) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", feedTitle, 4)
	g.writeElement(&buf, "link", g.baseURL(), 4)
	g.writeElement(&buf, "description", feedDescription, 4)

	selfLink := g.baseURL() + "/feeds/news"
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	if builtAt.IsZero() {
		builtAt = time.Now()
	}
	g.writeElement(&buf, "lastBuildDate", builtAt.In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("IT-Financial-Dashboard/%s", cfg.Get().Version), 4)

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", item.Title, 6)

	// Source failure records carry "#" and have no real link.
	if item.Link != "" && item.Link != FailureLink {
		g.writeElement(buf, "link", item.Link, 6)
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(item.Link)))
		xml.EscapeText(buf, []byte(item.Link))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "description", item.Summary, 6)
	g.writeElement(buf, "category", string(item.Sentiment), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) baseURL() string {
	if cfg.Get().BaseUrl != "" {
		return cfg.Get().BaseUrl
	}
	return fmt.Sprintf("http://localhost:%s", cfg.Get().Port)
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
