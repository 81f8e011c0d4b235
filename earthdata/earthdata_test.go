/*
Copyright © 2024 the ICETrack authors.
This file is part of ICETrack.

ICETrack is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ICETrack is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ICETrack.  If not, see <http://www.gnu.org/licenses/>.
*/

package earthdata

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(ioutil.Discard)
	return l
}

func TestFetch(t *testing.T) {
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got, want := r.Header.Get("Authorization"), "Bearer xyzzy"; got != want {
			t.Errorf("Authorization = %q, want %q", got, want)
		}
		w.Write([]byte("granule contents"))
	}))
	defer ts.Close()

	dir, err := ioutil.TempDir("", "earthdata")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	d := &Downloader{Dir: dir, Token: "xyzzy", Log: testLogger()}
	u := ts.URL + "/ATL06_20190101000000_00580310_006_01.h5"

	p, err := d.Fetch(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := filepath.Base(p), "ATL06_20190101000000_00580310_006_01.h5"; got != want {
		t.Errorf("downloaded file name = %q, want %q", got, want)
	}
	b, err := ioutil.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "granule contents" {
		t.Errorf("downloaded contents = %q", b)
	}

	// A second fetch must be satisfied by the existing file.
	if _, err := d.Fetch(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	if requests != 1 {
		t.Errorf("server received %d requests, want 1", requests)
	}
}

func TestFetch_existingFileKept(t *testing.T) {
	dir, err := ioutil.TempDir("", "earthdata")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	const name = "ATL11_054803_0311_004_01.h5"
	if err := ioutil.WriteFile(filepath.Join(dir, name), []byte("local copy"), 0644); err != nil {
		t.Fatal(err)
	}

	// No server: the fetch must not touch the network.
	d := &Downloader{Dir: dir, Log: testLogger()}
	p, err := d.Fetch(context.Background(), "https://invalid.example/"+name)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "local copy" {
		t.Errorf("existing file was overwritten: %q", b)
	}
}

func TestFetchAll_skipsFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if filepath.Base(r.URL.Path) == "missing.h5" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	dir, err := ioutil.TempDir("", "earthdata")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	d := &Downloader{Dir: dir, Log: testLogger()}
	paths, err := d.FetchAll(context.Background(), []string{
		ts.URL + "/a.h5",
		ts.URL + "/missing.h5",
		ts.URL + "/b.h5",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(paths), paths)
	}
	for _, p := range paths {
		if filepath.Base(p) == "missing.h5" {
			t.Error("failed download present in results")
		}
	}

	// The failed file must not be left behind as an empty file.
	if _, err := os.Stat(filepath.Join(dir, "missing.h5")); !os.IsNotExist(err) {
		t.Error("partial download was not removed")
	}
}

func TestFetch_fileBlob(t *testing.T) {
	src, err := ioutil.TempDir("", "earthdata-bucket")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(src)
	if err := ioutil.WriteFile(filepath.Join(src, "ATL15_AA_0314_01km_001_01.nc"), []byte("gridded"), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err := ioutil.TempDir("", "earthdata")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	d := &Downloader{Dir: dir, Log: testLogger()}
	p, err := d.Fetch(context.Background(), "file://"+src+"/ATL15_AA_0314_01km_001_01.nc")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "gridded" {
		t.Errorf("downloaded contents = %q", b)
	}
}

func TestIsBlob(t *testing.T) {
	for path, want := range map[string]bool{
		"gs://bucket/file.h5":      true,
		"s3://bucket/file.h5":      true,
		"file:///tmp/file.h5":      true,
		"https://example.com/f.h5": false,
		"/local/path/file.h5":      false,
	} {
		if got := IsBlob(path); got != want {
			t.Errorf("IsBlob(%q) = %v, want %v", path, got, want)
		}
	}
}
