package localization

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // registers file:// catalog URLs
	_ "gocloud.dev/blob/memblob"  // registers mem:// catalog URLs
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const messageFilePrefix = "messages."

var supportedFormats = map[string]i18n.UnmarshalFunc{
	"toml": toml.Unmarshal,
	"yaml": yaml.Unmarshal,
	"yml":  yaml.Unmarshal,
	"json": nil, // go-i18n decodes json natively
}

// Source yields raw message files. Files are named messages.<bcp47>.<ext>,
// for example messages.zh-CN.toml.
type Source interface {
	Walk(ctx context.Context, visit func(name string, content []byte) error) error
}

type fsSource struct {
	fsys fs.FS
	root string
}

// FSSource reads message files below root in fsys, typically an embed.FS.
func FSSource(fsys fs.FS, root string) Source {
	if root == "" {
		root = "."
	}
	return &fsSource{fsys: fsys, root: root}
}

func (s *fsSource) Walk(_ context.Context, visit func(string, []byte) error) error {
	return fs.WalkDir(s.fsys, s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMessageFile(p) {
			return nil
		}
		content, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		return visit(p, content)
	})
}

type bucketSource struct {
	url    string
	bucket *blob.Bucket
	prefix string
}

// BucketSource reads message files from the gocloud bucket at url, e.g.
// file:///etc/greendam/i18n or s3://catalogs?region=eu-west-1. The bucket is
// opened on Walk and closed afterwards.
func BucketSource(url, prefix string) Source {
	return &bucketSource{url: url, prefix: prefix}
}

// OpenedBucketSource reads from a bucket owned by the caller.
func OpenedBucketSource(bucket *blob.Bucket, prefix string) Source {
	return &bucketSource{bucket: bucket, prefix: prefix}
}

func (s *bucketSource) Walk(ctx context.Context, visit func(string, []byte) error) error {
	bucket := s.bucket
	if bucket == nil {
		var err error
		bucket, err = blob.OpenBucket(ctx, s.url)
		if err != nil {
			return fmt.Errorf("open catalog bucket %q: %w", s.url, err)
		}
		defer bucket.Close()
	}

	iter := bucket.List(&blob.ListOptions{Prefix: s.prefix})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list catalog bucket: %w", err)
		}
		if obj.IsDir || !isMessageFile(obj.Key) {
			continue
		}

		content, err := bucket.ReadAll(ctx, obj.Key)
		if err != nil {
			return fmt.Errorf("read %s: %w", obj.Key, err)
		}
		if err = visit(obj.Key, content); err != nil {
			return err
		}
	}
}

// splitMessageFile returns the language tag and format encoded in a message
// file name.
func splitMessageFile(name string) (string, string, bool) {
	base := path.Base(name)
	if !strings.HasPrefix(base, messageFilePrefix) {
		return "", "", false
	}

	parts := strings.Split(strings.TrimPrefix(base, messageFilePrefix), ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}

	if _, ok := supportedFormats[parts[1]]; !ok {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func isMessageFile(name string) bool {
	_, _, ok := splitMessageFile(name)
	return ok
}

func newBundle(defaultTag language.Tag) *i18n.Bundle {
	bundle := i18n.NewBundle(defaultTag)
	for format, fn := range supportedFormats {
		if fn != nil {
			bundle.RegisterUnmarshalFunc(format, fn)
		}
	}
	return bundle
}

// normaliseTag accepts both zh_CN and zh-CN spellings.
func normaliseTag(value string) string {
	return language.Make(strings.ReplaceAll(strings.TrimSpace(value), "_", "-")).String()
}

// loadSources parses every message file of sources into bundle. When
// languages is not empty only files for those languages are kept.
func loadSources(ctx context.Context, bundle *i18n.Bundle, languages []string, sources ...Source) (int, error) {
	wanted := map[string]bool{}
	for _, l := range languages {
		if l = strings.TrimSpace(l); l != "" {
			wanted[normaliseTag(l)] = true
		}
	}

	loaded := 0
	for _, src := range sources {
		err := src.Walk(ctx, func(name string, content []byte) error {
			tag, _, _ := splitMessageFile(name)
			if len(wanted) > 0 && !wanted[normaliseTag(tag)] {
				return nil
			}

			if _, err := bundle.ParseMessageFileBytes(content, name); err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			loaded++
			return nil
		})
		if err != nil {
			return loaded, err
		}
	}
	return loaded, nil
}
