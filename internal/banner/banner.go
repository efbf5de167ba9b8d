// Package banner prints the dev server's startup and shutdown messages.
package banner

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"github.com/f4ah6o/feedcalc-serve/internal/bundle"
)

// Feature is one line of the startup checklist.
type Feature struct {
	Name string
	OK   bool
	// Note is shown after the name when the feature is unavailable.
	Note string
}

// Info is everything the startup banner shows.
type Info struct {
	AppName  string
	Port     int
	Features []Feature
	// LANAddrs are non-loopback IPv4 addresses for testing from other devices.
	LANAddrs []string
}

// minBoxWidth is the inner width of the title box for short names.
const minBoxWidth = 56

var (
	boxColor   = color.New(color.FgCyan, color.Bold)
	urlColor   = color.New(color.FgGreen, color.Underline)
	okColor    = color.New(color.FgGreen)
	missColor  = color.New(color.FgYellow)
	titleColor = color.New(color.Bold)
)

// Checklist returns the features to advertise for a bundle.
// The app screens are always listed; offline mode and installation depend on what
// the bundle actually ships.
func Checklist(r bundle.Report) []Feature {
	return []Feature{
		{Name: "Feeding Calculator", OK: true},
		{Name: "Regional Calendar", OK: true},
		{Name: "Emergency Diagnostics", OK: true},
		{Name: "Batch Recipes", OK: true},
		{Name: "Offline Mode (after first load)", OK: r.ServiceWorker != "", Note: "no service worker found"},
		{Name: "Mobile Responsive Design", OK: true},
		{Name: "Install to Home Screen", OK: r.Installable(), Note: installNote(r)},
	}
}

func installNote(r bundle.Report) string {
	switch {
	case r.Manifest == "":
		return "index.html does not link a manifest"
	case r.ServiceWorker == "":
		return "no service worker found"
	}
	return ""
}

// Render writes the startup banner.
func Render(w io.Writer, info Info) {
	inner := max(minBoxWidth, displayWidth(info.AppName)+6)
	left := (inner - displayWidth(info.AppName)) / 2
	right := inner - displayWidth(info.AppName) - left

	fmt.Fprintln(w)
	boxColor.Fprintln(w, "╔"+strings.Repeat("═", inner)+"╗")
	boxColor.Fprint(w, "║"+strings.Repeat(" ", left))
	titleColor.Fprint(w, info.AppName)
	boxColor.Fprintln(w, strings.Repeat(" ", right)+"║")
	boxColor.Fprintln(w, "╚"+strings.Repeat("═", inner)+"╝")
	fmt.Fprintln(w)

	fmt.Fprint(w, "Server running at: ")
	urlColor.Fprintf(w, "http://localhost:%d", info.Port)
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open this URL in your browser to test the application.")
	fmt.Fprintln(w, "Press Ctrl+C to stop the server.")

	if len(info.Features) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Features available for testing:")
		for _, f := range info.Features {
			if f.OK {
				okColor.Fprintf(w, "✓ %s\n", f.Name)
				continue
			}
			missColor.Fprintf(w, "✗ %s (%s)\n", f.Name, f.Note)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "For mobile testing, use your local IP address:")
	if len(info.LANAddrs) == 0 {
		fmt.Fprintln(w, "- Find your IP: ifconfig or ipconfig")
		fmt.Fprintf(w, "- Access: http://[YOUR-IP]:%d\n", info.Port)
	}
	for _, addr := range info.LANAddrs {
		fmt.Fprintf(w, "- Access: http://%s:%d\n", addr, info.Port)
	}
	fmt.Fprintln(w)
}

// Farewell writes the shutdown message.
func Farewell(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	boxColor.Fprintln(w, "Server stopped.")
}

// LANAddrs returns the machine's non-loopback IPv4 addresses.
// Lookup failures yield an empty list.
func LANAddrs() []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	var out []string
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLinkLocalUnicast() {
			out = append(out, ip4.String())
		}
	}
	return out
}

// displayWidth returns the number of terminal columns s occupies.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
