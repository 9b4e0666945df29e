// Package s3fs provides an omnifs backend over S3-compatible object storage.
//
// Directories are emulated: a directory is a zero-byte object whose key ends
// in "/", and a name with objects under its prefix counts as a directory even
// without a marker. Ancestors are implicit, so neither Mkdir nor Create
// fails on a missing parent. Handles carry the whole object: Open fetches
// the content, and Sync uploads it back. Chmod verifies the target exists
// and discards the mode, since object storage has no permission bits.
//
// All names are anchored at the bucket root (plus the configured prefix);
// absolute and relative forms are equivalent here, as in memfs.
package s3fs

import (
	"bytes"
	"context"
	"io"
	iofs "io/fs"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/fspath"
	"github.com/omnifs/omnifs/internal/buffile"
	"github.com/omnifs/omnifs/internal/errors"
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755

	// removeConcurrency bounds the delete fan-out in RemoveAll and Rename.
	removeConcurrency = 8
)

// Config carries the connection parameters for an object-storage filesystem.
type Config struct {
	// Endpoint is the host:port of the S3-compatible server.
	Endpoint string
	Bucket   string

	// AccessKeyID and SecretAccessKey sign requests; leaving them empty
	// makes requests anonymously. SessionToken is for temporary
	// credentials.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	Region string
	Secure bool

	// Prefix roots every key under a bucket subtree.
	Prefix string

	// Timeout bounds each operation. Zero means no deadline.
	Timeout time.Duration
}

// Validate returns an error when required fields are missing.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("missing endpoint")
	}
	if c.Bucket == "" {
		return errors.New("missing bucket")
	}
	return nil
}

// FS is a filesystem in one bucket of an S3-compatible store.
type FS struct {
	client   *minio.Client
	endpoint string
	bucket   string
	prefix   string
	timeout  time.Duration
}

var _ omnifs.FileSystem = (*FS)(nil)

// NewFS configures the client and probes the bucket. An unreachable endpoint
// or a missing bucket classifies as ErrUnavailable.
func NewFS(cfg Config) (*FS, error) {
	f, err := newFS(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := f.opCtx()
	defer cancel()
	exists, err := f.client.BucketExists(ctx, f.bucket)
	if err != nil {
		return nil, unavailable(cfg.Endpoint, err)
	}
	if !exists {
		return nil, errors.Wrapf(omnifs.ErrUnavailable, "%s: bucket %q not found", cfg.Endpoint, cfg.Bucket)
	}
	return f, nil
}

func newFS(cfg Config) (*FS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &minio.Options{Secure: cfg.Secure, Region: cfg.Region}
	if cfg.AccessKeyID != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)
	}
	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to configure client for %s", cfg.Endpoint)
	}

	prefix := ""
	if cfg.Prefix != "" {
		p, err := fspath.Normalize(cfg.Prefix)
		if err != nil {
			return nil, err
		}
		if p != fspath.Root {
			prefix = p
		}
	}

	return &FS{
		client:   client,
		endpoint: cfg.Endpoint,
		bucket:   cfg.Bucket,
		prefix:   prefix,
		timeout:  cfg.Timeout,
	}, nil
}

func (f *FS) Create(name string) (omnifs.File, error) {
	p, err := fspath.Normalize(name)
	if err != nil {
		return nil, err
	}
	if p == fspath.Root || fspath.HasDirHint(name) {
		return nil, &omnifs.PathError{Op: "create", Path: name, Err: omnifs.ErrIsDir}
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	if occupied, err := f.dirAt(ctx, p); err != nil {
		return nil, f.convertError("create", name, err)
	} else if occupied {
		return nil, &omnifs.PathError{Op: "create", Path: name, Err: omnifs.ErrIsDir}
	}

	key := f.key(p)
	if _, err := f.client.PutObject(ctx, f.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{}); err != nil {
		return nil, f.convertError("create", name, err)
	}
	return buffile.New(p, nil, f.publisher(key, name)), nil
}

func (f *FS) Open(name string) (omnifs.File, error) {
	p, err := fspath.Normalize(name)
	if err != nil {
		return nil, err
	}
	if p == fspath.Root || fspath.HasDirHint(name) {
		return nil, &omnifs.PathError{Op: "open", Path: name, Err: omnifs.ErrIsDir}
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	key := f.key(p)
	obj, err := f.client.GetObject(ctx, f.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, f.convertError("open", name, err)
	}
	content, err := io.ReadAll(obj)
	_ = obj.Close()
	if err != nil {
		if isNotFound(err) {
			if occupied, dirErr := f.dirAt(ctx, p); dirErr == nil && occupied {
				return nil, &omnifs.PathError{Op: "open", Path: name, Err: omnifs.ErrIsDir}
			}
			return nil, &omnifs.PathError{Op: "open", Path: name, Err: omnifs.ErrNotFound}
		}
		return nil, f.convertError("open", name, err)
	}

	return buffile.New(p, content, f.publisher(key, name)), nil
}

func (f *FS) Remove(name string) error {
	p, err := fspath.Normalize(name)
	if err != nil {
		return err
	}
	if p == fspath.Root {
		return &omnifs.PathError{Op: "remove", Path: name, Err: omnifs.ErrIsDir}
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	key := f.key(p)
	if _, err := f.client.StatObject(ctx, f.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			if occupied, dirErr := f.dirAt(ctx, p); dirErr == nil && occupied {
				return &omnifs.PathError{Op: "remove", Path: name, Err: omnifs.ErrIsDir}
			}
			return &omnifs.PathError{Op: "remove", Path: name, Err: omnifs.ErrNotFound}
		}
		return f.convertError("remove", name, err)
	}

	if err := f.client.RemoveObject(ctx, f.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return f.convertError("remove", name, err)
	}
	return nil
}

func (f *FS) Mkdir(name string) error {
	p, err := fspath.Normalize(name)
	if err != nil {
		return err
	}
	if p == fspath.Root {
		return &omnifs.PathError{Op: "mkdir", Path: name, Err: omnifs.ErrExist}
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	if occupied, err := f.occupiedAt(ctx, p); err != nil {
		return f.convertError("mkdir", name, err)
	} else if occupied {
		return &omnifs.PathError{Op: "mkdir", Path: name, Err: omnifs.ErrExist}
	}

	return f.putMarker(ctx, "mkdir", name, p)
}

func (f *FS) MkdirAll(name string) error {
	p, err := fspath.Normalize(name)
	if err != nil {
		return err
	}
	if p == fspath.Root {
		return nil
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	if occupied, err := f.fileAt(ctx, p); err != nil {
		return f.convertError("mkdir", name, err)
	} else if occupied {
		return &omnifs.PathError{Op: "mkdir", Path: name, Err: omnifs.ErrExist}
	}
	if occupied, err := f.dirAt(ctx, p); err != nil {
		return f.convertError("mkdir", name, err)
	} else if occupied {
		return nil
	}

	return f.putMarker(ctx, "mkdir", name, p)
}

func (f *FS) RemoveDir(name string) error {
	p, err := fspath.Normalize(name)
	if err != nil {
		return err
	}
	if p == fspath.Root {
		return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrInvalidPath}
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	if occupied, err := f.fileAt(ctx, p); err != nil {
		return f.convertError("rmdir", name, err)
	} else if occupied {
		return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrNotDir}
	}

	prefix := f.dirKey(p)
	objects, err := f.list(ctx, minio.ListObjectsOptions{Prefix: prefix, MaxKeys: 2})
	if err != nil {
		return f.convertError("rmdir", name, err)
	}
	if len(objects) == 0 {
		return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrNotFound}
	}
	for _, obj := range objects {
		if obj.Key != prefix {
			return &omnifs.PathError{Op: "rmdir", Path: name, Err: omnifs.ErrDirNotEmpty}
		}
	}

	if err := f.client.RemoveObject(ctx, f.bucket, prefix, minio.RemoveObjectOptions{}); err != nil {
		return f.convertError("rmdir", name, err)
	}
	return nil
}

func (f *FS) RemoveAll(name string) error {
	p, err := fspath.Normalize(name)
	if err != nil {
		return err
	}
	if p == fspath.Root {
		return &omnifs.PathError{Op: "removeall", Path: name, Err: omnifs.ErrInvalidPath}
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	if occupied, err := f.fileAt(ctx, p); err != nil {
		return f.convertError("removeall", name, err)
	} else if occupied {
		return &omnifs.PathError{Op: "removeall", Path: name, Err: omnifs.ErrNotDir}
	}

	// The recursive listing includes the directory's own marker.
	objects, err := f.list(ctx, minio.ListObjectsOptions{Prefix: f.dirKey(p), Recursive: true})
	if err != nil {
		return f.convertError("removeall", name, err)
	}
	if len(objects) == 0 {
		return &omnifs.PathError{Op: "removeall", Path: name, Err: omnifs.ErrNotFound}
	}

	if err := f.removeKeys(ctx, objects); err != nil {
		return f.convertError("removeall", name, err)
	}
	return nil
}

func (f *FS) ReadDir(name string) ([]omnifs.DirEntry, error) {
	p, err := fspath.Normalize(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	prefix := f.dirKey(p)
	objects, err := f.list(ctx, minio.ListObjectsOptions{Prefix: prefix})
	if err != nil {
		return nil, f.convertError("readdir", name, err)
	}
	if len(objects) == 0 && p != fspath.Root {
		if occupied, statErr := f.fileAt(ctx, p); statErr != nil {
			return nil, f.convertError("readdir", name, statErr)
		} else if occupied {
			return nil, &omnifs.PathError{Op: "readdir", Path: name, Err: omnifs.ErrNotDir}
		}
		return nil, &omnifs.PathError{Op: "readdir", Path: name, Err: omnifs.ErrNotFound}
	}

	entries := make([]omnifs.DirEntry, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == prefix {
			continue
		}
		childName := strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), "/")
		if childName == "" {
			continue
		}
		entries = append(entries, omnifs.NewDirEntry(f, fspath.Join(p, childName)))
	}
	return entries, nil
}

func (f *FS) Rename(oldname, newname string) error {
	po, err := fspath.Normalize(oldname)
	if err != nil {
		return err
	}
	pn, err := fspath.Normalize(newname)
	if err != nil {
		return err
	}

	if po == fspath.Root {
		return &omnifs.PathError{Op: "rename", Path: oldname, Err: omnifs.ErrInvalidPath}
	}
	if pn == fspath.Root {
		return &omnifs.PathError{Op: "rename", Path: newname, Err: omnifs.ErrInvalidPath}
	}
	if po == pn {
		return nil
	}
	if strings.HasPrefix(pn, po+"/") {
		return &omnifs.PathError{Op: "rename", Path: newname, Err: omnifs.ErrInvalidPath}
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	if occupied, err := f.occupiedAt(ctx, pn); err != nil {
		return f.convertError("rename", newname, err)
	} else if occupied {
		return &omnifs.PathError{Op: "rename", Path: newname, Err: omnifs.ErrExist}
	}

	if occupied, err := f.fileAt(ctx, po); err != nil {
		return f.convertError("rename", oldname, err)
	} else if occupied {
		if err := f.copyObject(ctx, f.key(po), f.key(pn)); err != nil {
			return f.convertError("rename", oldname, err)
		}
		if err := f.client.RemoveObject(ctx, f.bucket, f.key(po), minio.RemoveObjectOptions{}); err != nil {
			return f.convertError("rename", oldname, err)
		}
		return nil
	}

	srcPrefix := f.dirKey(po)
	objects, err := f.list(ctx, minio.ListObjectsOptions{Prefix: srcPrefix, Recursive: true})
	if err != nil {
		return f.convertError("rename", oldname, err)
	}
	if len(objects) == 0 {
		return &omnifs.PathError{Op: "rename", Path: oldname, Err: omnifs.ErrNotFound}
	}

	// Copy the whole subtree before deleting any source key.
	dstPrefix := f.dirKey(pn)
	for _, obj := range objects {
		dstKey := dstPrefix + strings.TrimPrefix(obj.Key, srcPrefix)
		if err := f.copyObject(ctx, obj.Key, dstKey); err != nil {
			return f.convertError("rename", oldname, err)
		}
	}
	if err := f.removeKeys(ctx, objects); err != nil {
		return f.convertError("rename", oldname, err)
	}
	return nil
}

func (f *FS) Stat(name string) (omnifs.FileInfo, error) {
	p, err := fspath.Normalize(name)
	if err != nil {
		return omnifs.FileInfo{}, err
	}
	if p == fspath.Root {
		return omnifs.FileInfo{Name: "/", Type: omnifs.TypeDirectory, Mode: defaultDirMode}, nil
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	info, err := f.client.StatObject(ctx, f.bucket, f.key(p), minio.StatObjectOptions{})
	if err == nil {
		return omnifs.FileInfo{
			Name:    fspath.Base(p),
			Size:    info.Size,
			Type:    omnifs.TypeRegular,
			Mode:    defaultFileMode,
			ModTime: info.LastModified,
		}, nil
	}
	if !isNotFound(err) {
		return omnifs.FileInfo{}, f.convertError("stat", name, err)
	}

	// No object at the name itself; anything under its prefix makes it a
	// directory.
	objects, listErr := f.list(ctx, minio.ListObjectsOptions{Prefix: f.dirKey(p), MaxKeys: 1})
	if listErr != nil {
		return omnifs.FileInfo{}, f.convertError("stat", name, listErr)
	}
	if len(objects) > 0 {
		return omnifs.FileInfo{
			Name:    fspath.Base(p),
			Type:    omnifs.TypeDirectory,
			Mode:    defaultDirMode,
			ModTime: objects[0].LastModified,
		}, nil
	}
	return omnifs.FileInfo{}, &omnifs.PathError{Op: "stat", Path: name, Err: omnifs.ErrNotFound}
}

func (f *FS) Chmod(name string, mode iofs.FileMode) error {
	p, err := fspath.Normalize(name)
	if err != nil {
		return err
	}
	if p == fspath.Root {
		return nil
	}

	ctx, cancel := f.opCtx()
	defer cancel()

	occupied, err := f.occupiedAt(ctx, p)
	if err != nil {
		return f.convertError("chmod", name, err)
	}
	if !occupied {
		return &omnifs.PathError{Op: "chmod", Path: name, Err: omnifs.ErrNotFound}
	}
	return nil
}

// opCtx returns the context each operation runs under. The contract carries
// no contexts, so deadlines come from Config.Timeout.
func (f *FS) opCtx() (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), f.timeout)
}

// key maps a normalized path onto its object key.
func (f *FS) key(p string) string {
	if p == fspath.Root {
		return f.prefix
	}
	if f.prefix != "" {
		return f.prefix + "/" + p
	}
	return p
}

// dirKey maps a normalized path onto the listing prefix for its children.
func (f *FS) dirKey(p string) string {
	k := f.key(p)
	if k == "" {
		return ""
	}
	return k + "/"
}

// putMarker writes the zero-byte directory marker for p.
func (f *FS) putMarker(ctx context.Context, op, name, p string) error {
	_, err := f.client.PutObject(ctx, f.bucket, f.dirKey(p), bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	if err != nil {
		return f.convertError(op, name, err)
	}
	return nil
}

// publisher binds an upload to a key for handle commits.
func (f *FS) publisher(key, name string) buffile.PublishFunc {
	return func(data []byte) error {
		ctx, cancel := f.opCtx()
		defer cancel()

		_, err := f.client.PutObject(ctx, f.bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: "application/octet-stream"})
		if err != nil {
			return f.convertError("sync", name, err)
		}
		return nil
	}
}

// fileAt reports whether an object sits at p's own key.
func (f *FS) fileAt(ctx context.Context, p string) (bool, error) {
	_, err := f.client.StatObject(ctx, f.bucket, f.key(p), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// dirAt reports whether p holds a marker or any descendants.
func (f *FS) dirAt(ctx context.Context, p string) (bool, error) {
	if p == fspath.Root {
		return true, nil
	}
	objects, err := f.list(ctx, minio.ListObjectsOptions{Prefix: f.dirKey(p), MaxKeys: 1})
	if err != nil {
		return false, err
	}
	return len(objects) > 0, nil
}

// occupiedAt reports whether anything sits at p.
func (f *FS) occupiedAt(ctx context.Context, p string) (bool, error) {
	if occupied, err := f.fileAt(ctx, p); err != nil || occupied {
		return occupied, err
	}
	return f.dirAt(ctx, p)
}

// list drains one listing. Non-recursive listings report child directories
// as keys ending in "/".
func (f *FS) list(ctx context.Context, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error) {
	var objects []minio.ObjectInfo
	for obj := range f.client.ListObjects(ctx, f.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (f *FS) copyObject(ctx context.Context, srcKey, dstKey string) error {
	_, err := f.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: f.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: f.bucket, Object: srcKey})
	return err
}

// removeKeys deletes objects with a bounded fan-out.
func (f *FS) removeKeys(ctx context.Context, objects []minio.ObjectInfo) error {
	g := new(errgroup.Group)
	g.SetLimit(removeConcurrency)
	for _, obj := range objects {
		obj := obj
		g.Go(func() error {
			return f.client.RemoveObject(ctx, f.bucket, obj.Key, minio.RemoveObjectOptions{})
		})
	}
	return g.Wait()
}

// convertError maps client errors onto the omnifs taxonomy. Responses
// without an API error code are transport failures and classify as
// ErrUnavailable.
func (f *FS) convertError(op, name string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return &omnifs.PathError{Op: op, Path: name, Err: omnifs.ErrNotFound}
	case "AccessDenied":
		return &omnifs.PathError{Op: op, Path: name, Err: omnifs.ErrPermission}
	case "":
		return unavailable(f.endpoint, err)
	}
	return &omnifs.PathError{Op: op, Path: name, Err: err}
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

func unavailable(endpoint string, err error) error {
	return errors.Wrapf(omnifs.ErrUnavailable, "%s: %v", endpoint, err)
}
