// ABOUTME: Static page layout for the dashboard: heading, colours, and tabs.
// ABOUTME: Tabs reference chart producers by figure ID.
package dashboard

import "fmt"

// Colors is the dashboard colour scheme.
type Colors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
}

// DefaultColors is the light theme used by every chart and the page.
var DefaultColors = Colors{
	Background: "#f8f9fa",
	Text:       "#343a40",
	Primary:    "#007bff",
	Secondary:  "#6c757d",
}

// Tab is one tab of the page holding a single chart.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Layout describes the single dashboard page.
type Layout struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Colors   Colors `json:"colors"`
	Tabs     []Tab  `json:"tabs"`
}

// NewLayout returns the page layout. An empty owner yields a generic heading.
func NewLayout(owner string) Layout {
	title := "Health Dashboard"
	subtitle := "Visualizations of health data, providing insights into the health journey."
	if owner != "" {
		title = fmt.Sprintf("%s's Health Dashboard", owner)
		subtitle = fmt.Sprintf("Visualizations of %s's health data, providing insights into their health journey.", owner)
	}

	tabs := make([]Tab, 0, len(Charts))
	for _, c := range Charts {
		tabs = append(tabs, Tab{ID: c.ID, Label: c.Label})
	}

	return Layout{
		Title:    title,
		Subtitle: subtitle,
		Colors:   DefaultColors,
		Tabs:     tabs,
	}
}
