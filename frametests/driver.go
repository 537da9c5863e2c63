package frametests

import (
	"context"
	"net"

	"github.com/pitabwire/util"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

func GetFreePort(ctx context.Context) (int, error) {
	a, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	var l *net.TCPListener
	l, err = net.ListenTCP("tcp", a)
	if err != nil {
		return 0, err
	}
	defer util.CloseAndLogOnError(ctx, l)
	//nolint:errcheck //its generally expected to work
	return l.Addr().(*net.TCPAddr).Port, nil
}

// NewMemCatalogBucket returns an in-memory bucket holding files, keyed by
// object name. Callers close the bucket.
func NewMemCatalogBucket(ctx context.Context, files map[string]string) (*blob.Bucket, error) {
	bucket := memblob.OpenBucket(nil)
	for name, content := range files {
		if err := bucket.WriteAll(ctx, name, []byte(content), nil); err != nil {
			util.CloseAndLogOnError(ctx, bucket)
			return nil, err
		}
	}
	return bucket, nil
}
