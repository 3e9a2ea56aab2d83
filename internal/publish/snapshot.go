// ABOUTME: Builds a static snapshot of the dashboard: index.html plus chart images.
// ABOUTME: Snapshots are written to a local directory or uploaded to S3.
package publish

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/render"
	"github.com/harperreed/healthboard/internal/server"
)

// File is one file of a snapshot.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// IndexFile is the name of the snapshot page.
const IndexFile = "index.html"

// ChartFile returns the snapshot-relative path of a chart image.
func ChartFile(id string, format render.Format) string {
	return "charts/" + id + "." + string(format)
}

// Build renders the page and every chart in the given format.
func Build(charts *server.Charts, layout dashboard.Layout, format render.Format) ([]File, error) {
	var page bytes.Buffer
	err := server.WritePage(&page, layout, func(id string) string {
		return ChartFile(id, format)
	})
	if err != nil {
		return nil, err
	}

	files := []File{{Name: IndexFile, ContentType: "text/html; charset=utf-8", Data: page.Bytes()}}
	for _, c := range dashboard.Charts {
		data, err := charts.Render(c.ID, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", c.ID, err)
		}
		files = append(files, File{
			Name:        ChartFile(c.ID, format),
			ContentType: format.ContentType(),
			Data:        data,
		})
	}
	return files, nil
}

// WriteDir writes a snapshot under dir, creating directories as needed.
func WriteDir(dir string, files []File) error {
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return nil
}
