package export

import (
	"net/url"
	"strings"
)

// transformDirective asks the CDN for JPEG output, quality 85, downscaled to
// at most 2048px wide with aspect ratio preserved. Shrinking at the CDN cuts
// both transfer time and the in-memory footprint of the assembled archive,
// and pins the output format so the ".jpg" entry extension is honest.
const transformDirective = "f_jpg,q_85,w_2048,c_limit"

// uploadMarker separates the delivery prefix from the asset path in CDN
// delivery URLs; the transform directive goes right after it.
const uploadMarker = "/upload/"

// Resolver rewrites stored source URLs into optimized fetch URLs for a single
// known CDN host. Everything else passes through untouched. This is a pure
// string transform; reachability is the fetcher's problem.
type Resolver struct {
	cdnHost string
}

// NewResolver builds a Resolver for the given CDN delivery host
// (e.g. "res.cloudinary.com"). An empty host disables rewriting.
func NewResolver(cdnHost string) *Resolver {
	return &Resolver{cdnHost: cdnHost}
}

// Resolve returns the URL to fetch for the given source URL. Idempotent:
// applying it to its own output changes nothing, and non-CDN URLs are
// returned unchanged.
func (r *Resolver) Resolve(raw string) string {
	if r.cdnHost == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Host, r.cdnHost) {
		return raw
	}

	i := strings.Index(u.Path, uploadMarker)
	if i < 0 {
		return raw
	}

	rest := u.Path[i+len(uploadMarker):]
	if strings.HasPrefix(rest, transformDirective+"/") {
		// Already rewritten.
		return raw
	}

	u.Path = u.Path[:i] + uploadMarker + transformDirective + "/" + rest
	return u.String()
}

// Optimized reports whether the URL already carries the CDN transform, i.e.
// the fetched bytes will come back as JPEG within the width bound and need no
// local normalization.
func (r *Resolver) Optimized(raw string) bool {
	return strings.Contains(raw, uploadMarker+transformDirective+"/")
}
