package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFmt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	mustWriteFile(t, path, "# A\n### deep\nx\n\n\n\ny\n")

	out, err := run(t, "fmt", path)
	if err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	if out != "# A\n## deep\nx\n\ny\n" {
		t.Errorf("unexpected fmt output %q", out)
	}

	if _, err := run(t, "fmt", "-w", path); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "# A\n## deep\nx\n\ny\n" {
		t.Errorf("unexpected rewritten file %q", data)
	}
}

func TestTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	mustWriteFile(t, path, "# A\nfoo\n\n## B\nbar\nbaz")

	out, err := run(t, "tree", path)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	want := "h1 A\n  - foo\n  h2 B\n    - bar / baz\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	out, err = run(t, "tree", "--json", path)
	if err != nil {
		t.Fatalf("tree --json failed: %v", err)
	}
	if !strings.Contains(out, `"text": "foo"`) {
		t.Errorf("expected json outline, got %q", out)
	}
}

func TestImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	mustWriteFile(t, path, "<html><body><h1>Intro</h1><p>Hello</p><h2>More</h2><p>Details</p></body></html>")

	out, err := run(t, "import", path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if out != "# Intro\nHello\n\n## More\nDetails\n" {
		t.Errorf("unexpected import output %q", out)
	}

	if _, err := run(t, "import", filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("expected unsupported extension error")
	}
}

func TestHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	mustWriteFile(t, path, "# Title\nbody")
	out, err := run(t, "html", path)
	if err != nil {
		t.Fatalf("html failed: %v", err)
	}
	if !strings.Contains(out, "Title</h1>") {
		t.Errorf("expected heading in html, got %q", out)
	}
}

func TestNav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	mustWriteFile(t, path, "# A\nfoo\n\n# B\nbar")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"0", "down"}, "1 foo\n"},
		{[]string{"2", "up"}, "1 foo\n"},
		{[]string{"0", "up"}, "none\n"},
		{[]string{"3", "down"}, "none\n"},
	}
	for _, tt := range tests {
		out, err := run(t, append([]string{"nav", path}, tt.args...)...)
		if err != nil {
			t.Fatalf("nav %v failed: %v", tt.args, err)
		}
		if out != tt.want {
			t.Errorf("nav %v: expected %q, got %q", tt.args, tt.want, out)
		}
	}

	for _, bad := range [][]string{{"9", "down"}, {"x", "down"}, {"0", "left"}} {
		if _, err := run(t, append([]string{"nav", path}, bad...)...); err == nil {
			t.Errorf("nav %v: expected error", bad)
		}
	}
}
