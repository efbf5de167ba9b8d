// Package bundle inspects a web app bundle on disk to report which installable-app
// pieces it provides.
package bundle

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// IndexFile is the page inspected for manifest links and service worker registration.
const IndexFile = "index.html"

// DefaultServiceWorkers are checked at the bundle root when index.html does not register a worker.
var DefaultServiceWorkers = []string{"service-worker.js", "sw.js"}

// Report describes the installable-app pieces found in a bundle.
type Report struct {
	// Title is the text of the index page's <title> element.
	Title string
	// Manifest is the bundle-relative path of the linked manifest, or empty if the
	// index does not link one or the file is missing.
	Manifest string
	// ServiceWorker is the bundle-relative path of the service worker script, or empty if none was found.
	ServiceWorker string
}

// Installable reports whether the bundle has both a manifest and a service worker.
func (r Report) Installable() bool {
	return r.Manifest != "" && r.ServiceWorker != ""
}

var registerPattern = regexp.MustCompile(`serviceWorker\s*\.\s*register\(\s*['"]([^'"]+)['"]`)

// Inspect reads root/index.html and the local scripts it references.
//
// A missing index is not an error; the report is built from the bundle root alone.
// Only local references are followed. Absolute URLs with a host are ignored.
func Inspect(root string) (Report, error) {
	var r Report

	f, err := os.Open(filepath.Join(root, IndexFile))
	if errors.Is(err, os.ErrNotExist) {
		r.ServiceWorker = findDefaultWorker(root)
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("open %s: %w", IndexFile, err)
	}
	defer f.Close()

	node, err := html.Parse(f)
	if err != nil {
		return r, fmt.Errorf("parse %s: %w", IndexFile, err)
	}
	doc := goquery.NewDocumentFromNode(node)

	r.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if href, ok := doc.Find(`link[rel~="manifest"]`).First().Attr("href"); ok {
		if p := localPath(href); p != "" && exists(root, p) {
			r.Manifest = p
		}
	}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		code := s.Text()
		if src, ok := s.Attr("src"); ok {
			p := localPath(src)
			if p == "" {
				return true
			}
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
			if err != nil {
				return true
			}
			code = string(data)
		}
		m := registerPattern.FindStringSubmatch(code)
		if m == nil {
			return true
		}
		if p := localPath(m[1]); p != "" && exists(root, p) {
			r.ServiceWorker = p
			return false
		}
		return true
	})

	if r.ServiceWorker == "" {
		r.ServiceWorker = findDefaultWorker(root)
	}
	return r, nil
}

// localPath converts a same-origin reference into a clean bundle-relative path.
// It returns "" for references to other hosts or outside the bundle.
func localPath(ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return ""
	}
	p := path.Clean("/" + u.Path)
	return strings.TrimPrefix(p, "/")
}

func exists(root, rel string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

func findDefaultWorker(root string) string {
	for _, name := range DefaultServiceWorkers {
		if exists(root, name) {
			return name
		}
	}
	return ""
}
