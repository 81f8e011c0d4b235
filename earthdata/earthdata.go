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

// Package earthdata downloads data granules from NASA Earthdata
// servers and blob-storage mirrors into a local directory.
package earthdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// Downloader fetches granule files, skipping files that have already
// been downloaded.
type Downloader struct {
	// Dir is the directory downloaded files are stored in. It is
	// created if it does not exist.
	Dir string

	// Token is an Earthdata Login bearer token. If non-empty it is
	// sent as an Authorization header with every HTTP request.
	Token string

	// HTTPClient is the client used for HTTP downloads. If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client

	// Log receives progress messages. If nil, the logrus standard
	// logger is used.
	Log *logrus.Logger
}

func (d *Downloader) logger() *logrus.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logrus.StandardLogger()
}

// Fetch downloads the file at the given URL into Dir and returns the
// local path to it. If a file with the same base name already exists
// in Dir, Fetch returns its path without touching the network. The
// URL may use the http, https, file, gs, or s3 scheme.
func (d *Downloader) Fetch(ctx context.Context, fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("earthdata: %v", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("earthdata: no file name in URL %q", fileURL)
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("earthdata: creating download directory: %v", err)
	}
	dst := filepath.Join(d.Dir, name)
	if _, err := os.Stat(dst); err == nil {
		d.logger().WithField("file", name).Info("already downloaded; skipping")
		return dst, nil
	}

	d.logger().WithFields(logrus.Fields{"url": fileURL, "file": name}).Info("downloading")
	if IsBlob(fileURL) {
		err = d.fetchBlob(ctx, fileURL, dst)
	} else {
		err = d.fetchHTTP(ctx, fileURL, dst)
	}
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	return dst, nil
}

// FetchAll downloads each URL in turn. Failed downloads are logged
// and skipped; the returned paths are the files that were downloaded
// (or already present). An error is returned only if every download
// failed.
func (d *Downloader) FetchAll(ctx context.Context, urls []string) ([]string, error) {
	var paths []string
	var lastErr error
	for _, u := range urls {
		p, err := d.Fetch(ctx, u)
		if err != nil {
			d.logger().WithError(err).WithField("url", u).Warn("download failed; skipping")
			lastErr = err
			continue
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return paths, nil
}

func (d *Downloader) fetchHTTP(ctx context.Context, fileURL, dst string) error {
	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequest(http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("earthdata: %v", err)
	}
	req = req.WithContext(ctx)
	if d.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.Token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("earthdata: downloading %s: %v", fileURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("earthdata: downloading %s: status %s", fileURL, resp.Status)
	}
	return writeFile(dst, resp.Body)
}

func (d *Downloader) fetchBlob(ctx context.Context, fileURL, dst string) error {
	u, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("earthdata: %v", err)
	}
	// For file buckets the directory is the bucket; for gs and s3 the
	// bucket is the host and the key is the full object path.
	bucketName, key := u.Scheme+"://"+u.Host, strings.TrimPrefix(u.Path, "/")
	if u.Scheme == "file" {
		bucketName = u.Scheme + "://" + u.Host + path.Dir(u.Path)
		key = path.Base(u.Path)
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return err
	}
	r, err := bucket.NewReader(ctx, key)
	if err != nil {
		return fmt.Errorf("earthdata: reading %s: %v", fileURL, err)
	}
	defer r.Close()
	return writeFile(dst, r)
}

func writeFile(dst string, r io.Reader) error {
	w, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("earthdata: creating %s: %v", dst, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("earthdata: writing %s: %v", dst, err)
	}
	return w.Close()
}

// IsBlob returns whether the given path represents a blob
// (i.e., if it starts with 'gs://', 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where
// provider is one of "file" for the local filesystem (e.g., for
// testing), "gs" for Google Cloud Storage, or "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("earthdata.OpenBucket: %v", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.NewBucket(filepath.Join(u.Hostname(), u.Path))
	case "gs":
		return gsBucket(ctx, u.Hostname())
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("earthdata.OpenBucket: invalid provider %s", u.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s := session.Must(session.NewSession(c))
	return s3blob.OpenBucket(ctx, s, name)
}
