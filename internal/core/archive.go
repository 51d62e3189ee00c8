package core

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"slices"
	"strings"
)

var (
	roadEntryPattern = regexp.MustCompile(`(?i)road_code_total`)
	txtSuffix        = regexp.MustCompile(`(?i)\.txt$`)
)

// Archive is an opened registry zip with its entries picked.
type Archive struct {
	zr     *zip.ReadCloser
	Road   *zip.File
	Builds []*zip.File
}

// OpenArchive opens the zip at name and picks the road dictionary and the
// building files. Either one missing wraps ErrArchiveEntryMissing.
func OpenArchive(name string) (*Archive, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{
		zr:     zr,
		Road:   pickRoadEntry(zr.File),
		Builds: pickBuildEntries(zr.File),
	}
	if a.Road == nil {
		zr.Close()
		return nil, fmt.Errorf("%w: road_code_total*.txt", ErrArchiveEntryMissing)
	}
	if len(a.Builds) == 0 {
		zr.Close()
		return nil, fmt.Errorf("%w: build_*.txt", ErrArchiveEntryMissing)
	}
	return a, nil
}

// Close closes the underlying zip file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

func isFileEntry(f *zip.File) bool {
	return !f.FileInfo().IsDir() && !strings.HasSuffix(f.Name, "/")
}

// pickRoadEntry returns the first file whose base name contains
// road_code_total and ends in .txt, ignoring case.
func pickRoadEntry(files []*zip.File) *zip.File {
	for _, f := range files {
		if !isFileEntry(f) {
			continue
		}
		base := path.Base(f.Name)
		if roadEntryPattern.MatchString(base) && txtSuffix.MatchString(base) {
			return f
		}
	}
	return nil
}

// pickBuildEntries returns every build_*.txt file sorted by path.
func pickBuildEntries(files []*zip.File) []*zip.File {
	var builds []*zip.File
	for _, f := range files {
		if !isFileEntry(f) {
			continue
		}
		base := path.Base(f.Name)
		if strings.HasPrefix(base, "build_") && txtSuffix.MatchString(base) {
			builds = append(builds, f)
		}
	}
	slices.SortFunc(builds, func(a, b *zip.File) int {
		return strings.Compare(a.Name, b.Name)
	})
	return builds
}

// CountBuildLines counts the lines of every building file.
func (a *Archive) CountBuildLines(ctx context.Context) (int64, error) {
	var total int64
	for _, f := range a.Builds {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := countEntryLines(f)
		if err != nil {
			return total, fmt.Errorf("count %s: %w", f.Name, err)
		}
		total += n
	}
	return total, nil
}

func countEntryLines(f *zip.File) (int64, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return CountLines(rc)
}

// openEntry returns a reader over the decompressed entry.
func openEntry(f *zip.File) (io.ReadCloser, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	return rc, nil
}
