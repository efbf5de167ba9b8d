package banner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/f4ah6o/feedcalc-serve/internal/bundle"
)

func init() {
	color.NoColor = true
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Info{
		AppName:  "Seasonal Feeding Calculator & Schedule",
		Port:     8080,
		Features: Checklist(bundle.Report{ServiceWorker: "service-worker.js"}),
	})
	out := buf.String()

	for _, want := range []string{
		"Seasonal Feeding Calculator & Schedule",
		"Server running at: http://localhost:8080",
		"Press Ctrl+C to stop the server.",
		"✓ Feeding Calculator",
		"✓ Offline Mode (after first load)",
		"✗ Install to Home Screen (index.html does not link a manifest)",
		"- Access: http://[YOUR-IP]:8080",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q\n%s", want, out)
		}
	}

	// Box lines must all have the same display width.
	var widths []int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "╔") || strings.HasPrefix(line, "║") || strings.HasPrefix(line, "╚") {
			widths = append(widths, displayWidth(line))
		}
	}
	if len(widths) != 3 || widths[0] != widths[1] || widths[1] != widths[2] {
		t.Errorf("box line widths = %v, want three equal widths", widths)
	}
}

func TestRenderLANAddrs(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Info{AppName: "App", Port: 9000, LANAddrs: []string{"192.168.1.20"}})
	out := buf.String()

	if !strings.Contains(out, "- Access: http://192.168.1.20:9000") {
		t.Errorf("banner missing LAN address\n%s", out)
	}
	if strings.Contains(out, "[YOUR-IP]") {
		t.Errorf("banner should not show placeholder when addresses are known\n%s", out)
	}
}

func TestChecklist(t *testing.T) {
	tests := []struct {
		name        string
		report      bundle.Report
		wantOffline bool
		wantInstall bool
		wantNote    string
	}{
		{name: "Full bundle", report: bundle.Report{Manifest: "manifest.json", ServiceWorker: "sw.js"}, wantOffline: true, wantInstall: true},
		{name: "No worker", report: bundle.Report{Manifest: "manifest.json"}, wantNote: "no service worker found"},
		{name: "No manifest", report: bundle.Report{ServiceWorker: "sw.js"}, wantOffline: true, wantNote: "index.html does not link a manifest"},
		{name: "Empty bundle", report: bundle.Report{}, wantNote: "index.html does not link a manifest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Checklist(tt.report)
			if len(got) != 7 {
				t.Fatalf("len(Checklist()) = %d, want 7", len(got))
			}
			if got[4].OK != tt.wantOffline {
				t.Errorf("offline mode OK = %v, want %v", got[4].OK, tt.wantOffline)
			}
			install := got[6]
			if install.OK != tt.wantInstall || install.Note != tt.wantNote {
				t.Errorf("install = %+v, want OK %v note %q", install, tt.wantInstall, tt.wantNote)
			}
		})
	}
}

func TestFarewell(t *testing.T) {
	var buf bytes.Buffer
	Farewell(&buf)
	if buf.String() != "\n\nServer stopped.\n" {
		t.Errorf("Farewell() = %q", buf.String())
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{s: "abc", want: 3},
		{s: "給餌", want: 4},
		{s: "═", want: 1},
	}
	for _, tt := range tests {
		if got := displayWidth(tt.s); got != tt.want {
			t.Errorf("displayWidth(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}
