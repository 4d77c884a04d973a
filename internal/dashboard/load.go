package dashboard

import (
	"context"
	"time"

	"csvdash/internal/catalog"
	"csvdash/internal/csvdata"
	"csvdash/internal/log"

	"golang.org/x/sync/errgroup"
)

type loadJob struct {
	folder string
	file   string
}

// Load reads every catalog file and rebuilds CsvData and PreviewData. A
// file that fails to load is logged and left out; the others still load.
// The loading flag is cleared once the batch settles. Only a context error
// is returned.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	start := time.Now()
	var jobs []loadJob
	for _, f := range c.catalog.Entries() {
		for _, file := range f.Files {
			jobs = append(jobs, loadJob{folder: f.Name, file: file})
		}
	}

	results := make([]*csvdata.Table, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table, err := c.loader.Load(gctx, catalog.Path(job.folder, job.file))
			c.metrics.RecordFile(job.folder, table.Len(), err)
			if err != nil {
				c.logger.With(log.F("folder", job.folder), log.F("file", job.file)).
					WithError(err).Error("Error loading file")
				return nil
			}
			results[i] = table
			return nil
		})
	}
	_ = g.Wait()

	data := make(CsvData, len(c.catalog.Folders()))
	preview := make(PreviewData, len(data))
	for _, folder := range c.catalog.Folders() {
		data[folder] = make(map[string]*csvdata.Table)
		preview[folder] = make(map[string]*csvdata.Table)
	}
	loaded := 0
	for i, job := range jobs {
		table := results[i]
		if table == nil {
			continue
		}
		loaded++
		data[job.folder][job.file] = table
		preview[job.folder][job.file] = table.Head(c.previewRows)
		c.logger.With(log.F("folder", job.folder), log.F("file", job.file), log.F("rows", table.Len())).
			Debug("Loaded file")
	}

	c.mu.Lock()
	c.data = data
	c.preview = preview
	c.loading = false
	c.mu.Unlock()

	elapsed := time.Since(start)
	c.metrics.RecordLoad(elapsed)
	c.logger.With(
		log.F("files", len(jobs)),
		log.F("loaded", loaded),
		log.F("failed", len(jobs)-loaded),
		log.F("duration", elapsed.String()),
	).Info("Catalog loaded")

	return ctx.Err()
}

// Reload runs Load again, keeping the folder selection and file status.
func (c *Controller) Reload(ctx context.Context) error {
	c.logger.Debug("Reloading catalog")
	return c.Load(ctx)
}
