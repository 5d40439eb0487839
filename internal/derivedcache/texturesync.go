package derivedcache

import (
	"bytes"
	"image"
	"sync"

	"lukechampine.com/blake3"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
	"github.com/vE5li/korangar-sub004/internal/assetpath"
	"github.com/vE5li/korangar-sub004/internal/texture"
)

var textureSourceExtensions = []string{".bmp", ".png", ".jpg", ".jpeg", ".tga"}

// TextureSyncReport summarizes one SyncTextures pass.
type TextureSyncReport struct {
	Unchanged   []string
	Regenerated []string
	Removed     []string
	Skipped     []string
	Failed      map[string]error
}

type textureJob struct {
	sourcePath  string
	img         *image.NRGBA
	transparent bool
}

// SyncTextures runs spec.md §4.D steps 1-5 for the textures/*.dds layer:
// enumerate source textures, classify existing derived files into
// {unchanged, outdated, missing}, delete entries no source produces anymore,
// and regenerate outdated/missing entries in parallel using a bounded
// worker pool. shouldStop is polled before each new unit of work is
// dispatched; work already dispatched always runs to completion, so an
// aborted pass still leaves the archive in a consistent (merely stale)
// state. A nil shouldStop never aborts.
func (c *Cache) SyncTextures(shouldStop func() bool) (TextureSyncReport, error) {
	report := TextureSyncReport{Failed: make(map[string]error)}
	if shouldStop == nil {
		shouldStop = func() bool { return false }
	}

	sourcePaths, err := c.source.List(textureSourceExtensions)
	if err != nil {
		return report, err
	}

	var textures []string
	for _, p := range sourcePaths {
		if assetpath.IsTextureSourcePath(p) {
			textures = append(textures, p)
		}
	}

	if err := c.removeObsoleteDerivedTextures(textures, &report); err != nil {
		return report, err
	}

	jobs := c.classifyTextures(textures, &report)

	aborted := c.regenerateTextures(jobs, &report, shouldStop)

	c.logger.Info("derivedcache", "texture sync pass complete", map[string]interface{}{
		"unchanged":   len(report.Unchanged),
		"regenerated": len(report.Regenerated),
		"removed":     len(report.Removed),
		"skipped":     len(report.Skipped),
		"failed":      len(report.Failed),
		"aborted":     aborted,
	})
	for path, err := range report.Failed {
		c.logger.Warn("derivedcache", "texture sync unit failed", map[string]interface{}{"path": path, "error": err.Error()})
	}

	if aborted {
		return report, assetfs.ErrShutdownRequested
	}
	return report, nil
}

func (c *Cache) removeObsoleteDerivedTextures(sourcePaths []string, report *TextureSyncReport) error {
	existingDerived, err := c.derived.List([]string{".dds"})
	if err != nil {
		return err
	}
	expected := make(map[string]struct{}, len(sourcePaths))
	for _, src := range sourcePaths {
		expected[assetpath.Normalize(assetpath.DerivedTexturePath(src))] = struct{}{}
	}
	for _, existing := range existingDerived {
		if _, ok := expected[assetpath.Normalize(existing)]; ok {
			continue
		}
		if err := c.derived.Remove(existing); err != nil {
			report.Failed[existing] = err
			continue
		}
		report.Removed = append(report.Removed, existing)
	}
	return nil
}

func (c *Cache) classifyTextures(sourcePaths []string, report *TextureSyncReport) []textureJob {
	var jobs []textureJob
	for _, src := range sourcePaths {
		data, ok, err := c.source.Read(src)
		if err != nil {
			report.Failed[src] = err
			continue
		}
		if !ok {
			continue
		}
		img, transparent, decodeErr := texture.DecodeSourceRGBA(src, data)
		if decodeErr != nil {
			report.Failed[src] = decodeErr
			continue
		}

		width, height := img.Bounds().Dx(), img.Bounds().Dy()
		if texture.TooSmallToCrop(width, height) {
			report.Skipped = append(report.Skipped, src)
			continue
		}

		sourceHash := blake3.Sum256(img.Pix)
		derivedPath := assetpath.DerivedTexturePath(src)
		existing, found, _ := c.derived.Read(derivedPath)
		if found && len(existing) >= 32 && bytes.Equal(existing[len(existing)-32:], sourceHash[:]) {
			report.Unchanged = append(report.Unchanged, src)
			continue
		}

		jobs = append(jobs, textureJob{sourcePath: src, img: img, transparent: transparent})
	}
	return jobs
}

// regenerateTextures dispatches jobs across c.workers goroutines, returning
// true if the pass was aborted before all jobs were dispatched.
func (c *Cache) regenerateTextures(jobs []textureJob, report *TextureSyncReport, shouldStop func() bool) bool {
	if len(jobs) == 0 {
		return false
	}

	workers := c.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	queue := make(chan textureJob)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				err := c.regenerateTexture(job)
				mu.Lock()
				if err != nil {
					report.Failed[job.sourcePath] = err
				} else {
					report.Regenerated = append(report.Regenerated, job.sourcePath)
				}
				mu.Unlock()
			}
		}()
	}

	aborted := false
	for _, job := range jobs {
		if shouldStop() {
			aborted = true
			break
		}
		queue <- job
	}
	close(queue)
	wg.Wait()
	return aborted
}

func (c *Cache) regenerateTexture(job textureJob) error {
	sourceHash := blake3.Sum256(job.img.Pix)
	result := texture.BuildDerivedTexture(job.img, job.transparent)
	encoded := texture.EncodeDerivedDDS(result)
	encoded = append(encoded, sourceHash[:]...)
	return c.derived.WriteAtomic(assetpath.DerivedTexturePath(job.sourcePath), encoded)
}
