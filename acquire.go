package binwrapper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"

	"github.com/mholt/archiver/v3"
	"golang.org/x/sync/errgroup"
)

// acquire downloads every matched source into the destination. All
// downloads run concurrently and all must land before verification, so
// this is a join barrier. Any single failure fails the whole step.
func (r *runContext) acquire(ctx context.Context) error {
	matched := matchSources(r.bin.sources, currentOS(), currentArch())
	if len(matched) == 0 {
		return &AcquisitionError{
			Err: fmt.Errorf("no source matching %s/%s", currentOS(), currentArch()),
		}
	}
	errGroup, ctx := errgroup.WithContext(ctx)
	for _, src := range matched {
		src := src
		errGroup.Go(func() error {
			return r.fetchSource(ctx, src)
		})
	}
	err := errGroup.Wait()
	if err != nil {
		return &AcquisitionError{Err: err}
	}
	return nil
}

// fetchSource downloads one source URL and places its contents in the
// destination directory. Archives are extracted with the configured
// strip-components count, anything else is written under its base name.
func (r *runContext) fetchSource(ctx context.Context, src Source) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer logCloseErr(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed downloading %s", src.URL)
	}
	body := io.Reader(resp.Body)
	if r.bin.progress != nil {
		body = io.TeeReader(body, r.bin.progress)
	}
	filename := urlFilename(src.URL)
	if _, archiveErr := archiver.ByExtension(filename); archiveErr != nil {
		return writeFile(filepath.Join(r.bin.dest, filename), body, 0o755)
	}
	return extractStream(ctx, filename, body, r.bin.dest, r.bin.stripComponents)
}

func urlFilename(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(parsed.EscapedPath())
}
