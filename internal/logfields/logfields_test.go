package logfields

import (
	"errors"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    interface{}
	}{
		{"BuildID", KeyBuildID, "b-1", BuildID("b-1")},
		{"Stage", KeyStage, "render_pages", Stage("render_pages")},
		{"Page", KeyPage, "coverage", Page("coverage")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Dir", KeyDir, "htmlcov", Dir("htmlcov")},
		{"File", KeyFile, "index.html", File("index.html")},
	}
	for _, c := range cases {
		attr, ok := c.attr.(interface {
			String() string
		})
		if !ok {
			t.Fatalf("%s: helper did not return a slog.Attr-like value", c.name)
		}
		got := attr.String()
		want := c.attrKey + "=" + c.attrVal
		if got != want {
			t.Errorf("%s: got %q want %q", c.name, got, want)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if got := Error(nil).String(); got != "error=" {
		t.Errorf("nil error attr: got %q", got)
	}
	if got := Error(errors.New("boom")).String(); got != "error=boom" {
		t.Errorf("error attr: got %q", got)
	}
}
