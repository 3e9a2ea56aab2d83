// ABOUTME: HTML page template for the tabbed dashboard.
// ABOUTME: Tabs switch with CSS only; each tab shows one chart image.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/harperreed/healthboard/internal/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageTab struct {
	dashboard.Tab
	Checked  bool
	ImageURL string
}

type pageData struct {
	Title    string
	Subtitle string
	Style    template.CSS
	Tabs     []pageTab
}

// WritePage renders the dashboard page. imageURL maps a chart ID to its image URL.
func WritePage(w io.Writer, layout dashboard.Layout, imageURL func(id string) string) error {
	data := pageData{
		Title:    layout.Title,
		Subtitle: layout.Subtitle,
		Style:    pageStyle(layout),
	}
	for i, tab := range layout.Tabs {
		data.Tabs = append(data.Tabs, pageTab{
			Tab:      tab,
			Checked:  i == 0,
			ImageURL: imageURL(tab.ID),
		})
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// pageStyle builds the stylesheet, including one visibility rule per tab.
func pageStyle(layout dashboard.Layout) template.CSS {
	c := layout.Colors
	var sb strings.Builder
	fmt.Fprintf(&sb, "body{background:%s;color:%s;font-family:Helvetica,Arial,sans-serif;margin:0;padding:24px;}\n", c.Background, c.Text)
	fmt.Fprintf(&sb, "h1{text-align:center;color:%s;margin:0 0 8px;}\n", c.Text)
	fmt.Fprintf(&sb, ".subtitle{text-align:center;color:%s;margin:0 0 24px;}\n", c.Secondary)
	sb.WriteString(".tabs input{display:none;}\n")
	fmt.Fprintf(&sb, ".tabs label{display:inline-block;padding:10px 18px;cursor:pointer;border-bottom:3px solid transparent;color:%s;}\n", c.Secondary)
	sb.WriteString(".panel{display:none;padding-top:16px;text-align:center;}\n")
	sb.WriteString(".panel img{max-width:100%;background:#ffffff;}\n")
	for _, tab := range layout.Tabs {
		fmt.Fprintf(&sb, "#tab-%[1]s:checked~.panels #panel-%[1]s{display:block;}\n", tab.ID)
		fmt.Fprintf(&sb, "#tab-%[1]s:checked+label{color:%[2]s;border-bottom-color:%[2]s;}\n", tab.ID, c.Primary)
	}
	return template.CSS(sb.String())
}
