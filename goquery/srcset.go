package goquery

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// archiveHost is the media archive serving resized thumbnails.
const archiveHost = "archives.bulbagarden.net"

// bestImageSource picks the highest-quality source of an <img> node and
// resolves it against base. Candidates come from the srcset attribute
// ("url descriptor" pairs), with the plain src attribute standing in for the
// "1x" entry when srcset lacks one. Preference order: 2x, 1.5x, 1x.
//
// With preferCanonical set, the resolved URL is additionally rewritten from
// the archive's thumbnail convention back to the original asset; if that
// reconstruction does not apply, the thumbnail URL is returned as-is rather
// than failing.
func bestImageSource(img *html.Node, base *url.URL, preferCanonical bool) *url.URL {
	srcSet := make(map[string]string)
	raw, _ := attr(img, "srcset")
	for _, entry := range strings.Split(raw, ",") {
		i := strings.LastIndex(entry, " ")
		if i < 0 {
			continue
		}
		srcSet[strings.TrimSpace(entry[i+1:])] = strings.TrimSpace(entry[:i])
	}
	if _, ok := srcSet["1x"]; !ok {
		srcSet["1x"] = attrOr(img, "src", "")
	}

	var src string
	for _, size := range []string{"2x", "1.5x", "1x"} {
		if s := srcSet[size]; s != "" {
			src = s
			break
		}
	}
	if src == "" {
		// neither srcset nor src named a source
		return nil
	}

	resolved, err := base.Parse(src)
	if err != nil {
		return nil
	}

	if preferCanonical {
		if origin := thumbnailOrigin(resolved); origin != nil {
			return origin
		}
	}
	return resolved
}

// thumbnailOrigin reconstructs the original asset URL from a resized
// thumbnail URL. The archive serves thumbnails under
// /media/upload/thumb/<a>/<b>/<file>/<size>-<file>; the original lives at
// /media/upload/<a>/<b>/<file>. Returns nil when the URL is not on the
// archive host or its path does not have that exact shape.
func thumbnailOrigin(u *url.URL) *url.URL {
	if u.Hostname() != archiveHost || !strings.Contains(u.EscapedPath(), "/thumb/") {
		return nil
	}

	segments := strings.Split(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
	if len(segments) < 6 {
		return nil
	}
	if segments[0] != "media" || segments[1] != "upload" || segments[2] != "thumb" {
		return nil
	}

	escaped := "/media/upload/" + segments[3] + "/" + segments[4] + "/" + segments[5]
	path, err := url.PathUnescape(escaped)
	if err != nil {
		return nil
	}

	origin := *u
	origin.Path = path
	origin.RawPath = ""
	if path != escaped {
		origin.RawPath = escaped
	}
	return &origin
}
