// Package tests provides the external test data sets used by the emulator
// tests, downloading them on first use.
package tests

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

var client = &http.Client{Timeout: 2 * time.Minute}

func decompress(zipFile, dest string) (int, error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	for _, f := range r.File {
		fname := strings.Replace(f.Name, "nes-test-roms-master", "nes-test-roms", 1)
		fpath := filepath.Join(dest, fname)
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return 0, fmt.Errorf("%s: illegal file path", fpath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return 0, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return 0, err
		}
		if err := extract(f, fpath); err != nil {
			return 0, err
		}
	}

	return len(r.File), nil
}

func extract(f *zip.File, fpath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func download(url string, w io.Writer) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func downloadTestRoms(tb testing.TB, dest string) error {
	const url = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`

	tmpf, err := os.CreateTemp("", "nes-test-roms-*-.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmpf.Name())
	defer tmpf.Close()

	if err := download(url, tmpf); err != nil {
		return err
	}

	n, err := decompress(tmpf.Name(), dest)
	if err != nil {
		return fmt.Errorf("failed to decompress test roms: %w", err)
	}
	tb.Log("decompressed", n, "files")
	return nil
}

// download the single step processor tests, one file per opcode.
func downloadProcTests(tb testing.TB, dest string) error {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/nes6502/v1/%s.json`

	tempdir, err := os.MkdirTemp("", "processor.tests.*")
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		opstr := fmt.Sprintf("%02x", opcode)
		url := fmt.Sprintf(urlfmt, opstr)

		g.Go(func() error {
			f, err := os.Create(filepath.Join(tempdir, opstr+".json"))
			if err != nil {
				return err
			}
			defer f.Close()

			return download(url, f)
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		return fmt.Errorf("failed to download all files: %w", err)
	}

	tb.Log("renaming", tempdir, "to", dest)
	return os.Rename(tempdir, dest)
}

type dataset struct {
	mu   sync.Mutex
	name string
	dir  string
	err  error
	done bool
	get  func(testing.TB, string) error
}

var (
	testRoms  = dataset{name: "nes-test-roms", get: downloadTestRoms}
	procTests = dataset{name: "processor.tests", get: downloadProcTests}
)

// path returns the data set directory, downloading it if needed. The test is
// skipped if the data set is not available.
func (ds *dataset) path(tb testing.TB, dirOf func(testsDir string) string) string {
	tb.Helper()

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.done {
		ds.done = true
		_, b, _, _ := runtime.Caller(0)
		testsDir := filepath.Dir(b)
		ds.dir = filepath.Join(testsDir, ds.name)

		if _, err := os.Stat(ds.dir); errors.Is(err, fs.ErrNotExist) {
			if testing.Short() {
				ds.done = false
				tb.Skipf("%s not found, skipped in short mode", ds.name)
			}
			tb.Logf("%s directory not found, downloading it...", ds.name)
			ds.err = ds.get(tb, dirOf(testsDir))
		}
	}

	if ds.err != nil {
		tb.Skipf("%s unavailable: %s", ds.name, ds.err)
	}
	return ds.dir
}

// RomsPath returns the path to the nes-test-roms directory.
func RomsPath(tb testing.TB) string {
	tb.Helper()
	return testRoms.path(tb, func(testsDir string) string { return testsDir })
}

// ProcTestsPath returns the path to the directory holding the single step
// processor tests, named after the opcode they test (i.e 'a9.json').
func ProcTestsPath(tb testing.TB) string {
	tb.Helper()
	return procTests.path(tb, func(string) string { return procTests.dir })
}
