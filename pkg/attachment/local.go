package attachment

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// LocalResolver builds plain URLs under a base prefix. It is a
// development stand-in for presigned storage; the expiry is advisory
// only, attached as a query parameter for the serving process to check.
type LocalResolver struct {
	base *url.URL
}

func NewLocalResolver(baseURL string) (*LocalResolver, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &LocalResolver{base: base}, nil
}

func (r *LocalResolver) UploadURL(_ context.Context, storageKey string, expires time.Duration) (string, error) {
	return r.build(storageKey, expires), nil
}

func (r *LocalResolver) DownloadURL(_ context.Context, storageKey string, expires time.Duration) (string, error) {
	return r.build(storageKey, expires), nil
}

func (r *LocalResolver) build(storageKey string, expires time.Duration) string {
	u := *r.base
	u.Path, _ = url.JoinPath(u.Path, storageKey)
	q := u.Query()
	q.Set("expires", strconv.FormatInt(time.Now().UTC().Add(expires).Unix(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
