package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cytopush/pkg/cyjs"
	"github.com/matzehuels/cytopush/pkg/cyrest/cyresttest"
	"github.com/matzehuels/cytopush/pkg/errors"
	"github.com/matzehuels/cytopush/pkg/observability"
	"github.com/matzehuels/cytopush/pkg/pipeline"
)

const fixture = "testdata/provisioning.cyjs"

type harness struct {
	cli    *CLI
	out    *bytes.Buffer
	stderr *syncBuffer
	env    map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		out:    &bytes.Buffer{},
		stderr: &syncBuffer{},
		env:    map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	}
	h.cli = New(h.stderr, LogInfo)
	h.cli.Out = h.out
	h.cli.Getenv = func(k string) string { return h.env[k] }
	t.Cleanup(observability.Reset)
	return h
}

func (h *harness) run(args ...string) error {
	root := h.cli.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// serverFlags addresses the fake server through --host and --port.
func serverFlags(t *testing.T, srv *cyresttest.Server) []string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return []string{"--host", u.Hostname(), "--port", u.Port()}
}

func TestPushCommand(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	h := newHarness(t)

	args := append([]string{"push", fixture}, serverFlags(t, srv)...)
	if err := h.run(args...); err != nil {
		t.Fatalf("push: %v", err)
	}

	if n := len(srv.Calls()); n != 5 {
		t.Errorf("server saw %d requests, want 5", n)
	}
	out := h.out.String()
	for _, want := range []string{"Pushed " + fixture, "Network", "52", "hierarchical", "My Visual Style", "3 nodes · 2 edges"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPushCommandFlagsReachServer(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	h := newHarness(t)

	args := append([]string{"push", fixture, "--layout", "grid", "--style", "testdata/style.yaml"}, serverFlags(t, srv)...)
	if err := h.run(args...); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := srv.AppliedLayout(52); got != "grid" {
		t.Errorf("layout = %q, want grid", got)
	}
	if got := srv.AppliedStyle(52); got != "Deployment View" {
		t.Errorf("style = %q, want Deployment View", got)
	}
}

func TestPushCommandNothingToRender(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	h := newHarness(t)

	args := append([]string{"push", fixture, "--target", "GatewayNode"}, serverFlags(t, srv)...)
	err := h.run(args...)
	if !errors.Is(err, errors.ErrCodeNothingToRender) {
		t.Fatalf("push = %v, want NOTHING_TO_RENDER", err)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestPushCommandKeepPolicy(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	h := newHarness(t)

	args := append([]string{"push", fixture, "--target", "GatewayNode", "--policy", "keep"}, serverFlags(t, srv)...)
	if err := h.run(args...); err != nil {
		t.Fatalf("push: %v", err)
	}
	if !strings.Contains(h.out.String(), "1 nodes · 0 edges") {
		t.Errorf("output:\n%s", h.out.String())
	}
}

func TestPushCommandStepFailure(t *testing.T) {
	srv := cyresttest.New()
	srv.Fail(cyresttest.RouteApplyLayout, http.StatusNotFound)
	defer srv.Close()
	h := newHarness(t)

	args := append([]string{"push", fixture}, serverFlags(t, srv)...)
	err := h.run(args...)
	var se *pipeline.StepError
	if !stderrors.As(err, &se) || se.State != pipeline.StateLayoutApplied {
		t.Fatalf("push = %v, want failure at layout-applied", err)
	}
	if !strings.Contains(h.out.String(), "network 52 was created") {
		t.Errorf("output should warn about the orphaned network:\n%s", h.out.String())
	}
	if !strings.HasPrefix(FormatError(err), "push failed at layout-applied: ") {
		t.Errorf("FormatError = %q", FormatError(err))
	}
}

func TestPushCommandVerbose(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	h := newHarness(t)

	args := append([]string{"push", fixture, "-v"}, serverFlags(t, srv)...)
	if err := h.run(args...); err != nil {
		t.Fatalf("push: %v", err)
	}
	logs := h.stderr.String()
	for _, want := range []string{"step done", "step=style-applied", "http response", "status=200"} {
		if !strings.Contains(logs, want) {
			t.Errorf("verbose log missing %q", want)
		}
	}
}

func TestPushCommandMissingFile(t *testing.T) {
	h := newHarness(t)
	err := h.run("push", filepath.Join(t.TempDir(), "absent.cyjs"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("push = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFilterCommandStdout(t *testing.T) {
	h := newHarness(t)
	if err := h.run("filter", fixture); err != nil {
		t.Fatalf("filter: %v", err)
	}

	doc, err := cyjs.Parse(h.out.Bytes())
	if err != nil {
		t.Fatalf("output is not a valid document: %v", err)
	}
	var ids []string
	for _, n := range doc.Elements.Nodes {
		ids = append(ids, n.Data.ID)
	}
	if strings.Join(ids, ",") != "topo,n1,n2" {
		t.Errorf("nodes = %v", ids)
	}
	if doc.GeneratedBy != "immortals-0.1.0" {
		t.Errorf("top-level fields not preserved: %+v", doc)
	}
}

func TestFilterCommandOutputFile(t *testing.T) {
	h := newHarness(t)
	out := filepath.Join(t.TempDir(), "subtree.cyjs")

	if err := h.run("filter", fixture, "-o", out); err != nil {
		t.Fatalf("filter: %v", err)
	}
	doc, err := cyjs.ImportJSON(out)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(doc.Elements.Nodes) != 3 || len(doc.Elements.Edges) != 2 {
		t.Errorf("wrote %d nodes, %d edges", len(doc.Elements.Nodes), len(doc.Elements.Edges))
	}
	if !strings.Contains(h.out.String(), out) {
		t.Errorf("output should name the file:\n%s", h.out.String())
	}
}

func TestPreviewCommandDOT(t *testing.T) {
	h := newHarness(t)
	if err := h.run("preview", fixture, "-f", "dot", "--detailed"); err != nil {
		t.Fatalf("preview: %v", err)
	}
	dot := h.out.String()
	for _, want := range []string{"digraph G {", `"n1" -> "topo"`, `color="blue"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestPreviewCommandDOTFile(t *testing.T) {
	h := newHarness(t)
	out := filepath.Join(t.TempDir(), "tree.dot")
	if err := h.run("preview", fixture, "-f", "dot", "-o", out, "--rankdir", "lr"); err != nil {
		t.Fatalf("preview: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("rankdir=LR;")) {
		t.Errorf("DOT file:\n%s", data)
	}
}

func TestPreviewCommandInvalidFormat(t *testing.T) {
	h := newHarness(t)
	err := h.run("preview", fixture, "-f", "pdf")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("preview = %v, want INVALID_INPUT", err)
	}
}

func TestStyleCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		title string
	}{
		{"built-in", []string{"style"}, `"title": "My Visual Style"`},
		{"from file", []string{"style", "--style", "testdata/style.yaml"}, `"title": "Deployment View"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.run(tt.args...); err != nil {
				t.Fatalf("style: %v", err)
			}
			if !strings.Contains(h.out.String(), tt.title) {
				t.Errorf("output:\n%s", h.out.String())
			}
			if !strings.Contains(h.out.String(), `"mappingType": "passthrough"`) {
				t.Errorf("mappings not in wire format:\n%s", h.out.String())
			}
		})
	}
}

func TestLayoutsCommand(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	h := newHarness(t)

	if err := h.run(append([]string{"layouts"}, serverFlags(t, srv)...)...); err != nil {
		t.Fatalf("layouts: %v", err)
	}
	out := h.out.String()
	for _, name := range cyresttest.DefaultLayouts {
		if !strings.Contains(out, name) {
			t.Errorf("output missing layout %q", name)
		}
	}
	if !strings.Contains(out, iconArrow+" hierarchical") {
		t.Errorf("configured layout not marked:\n%s", out)
	}
}

func TestStatusCommand(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	h := newHarness(t)

	if err := h.run(append([]string{"status"}, serverFlags(t, srv)...)...); err != nil {
		t.Fatalf("status: %v", err)
	}
	out := h.out.String()
	for _, want := range []string{"reachable", "v1", "8", "maxMemory", "4096 MB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusCommandUnreachable(t *testing.T) {
	srv := cyresttest.New()
	flags := serverFlags(t, srv)
	srv.Close()

	h := newHarness(t)
	err := h.run(append([]string{"status"}, flags...)...)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("status = %v, want NETWORK_ERROR", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	h := newHarness(t)
	if err := h.run("completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(h.out.String(), "cytopush") {
		t.Error("bash completion should mention the binary")
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			"coded",
			errors.New(errors.ErrCodeNodeNotFound, "no node named %q", "X"),
			[]string{`no node named "X"`, "[NODE_NOT_FOUND]"},
		},
		{
			"plain",
			stderrors.New("boom"),
			[]string{"boom"},
		},
		{
			"step",
			&pipeline.StepError{State: pipeline.StateStyleRegistered, Err: errors.New(errors.ErrCodeSchema, "reply has no title")},
			[]string{"push failed at style-registered: reply has no title", "[SCHEMA_ERROR]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("FormatError() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestPushCommandSpinnerOwnsStderr(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		srv := cyresttest.New()
		h := newHarness(t)

		args := append([]string{"push", fixture}, serverFlags(t, srv)...)
		if verbose {
			args = append(args, "--verbose")
		}
		if err := h.run(args...); err != nil {
			t.Fatalf("push (verbose=%v): %v", verbose, err)
		}
		srv.Close()

		logged := strings.Contains(h.stderr.String(), "network created")
		if logged != verbose {
			t.Errorf("verbose=%v: runner log on stderr = %v\n%s", verbose, logged, h.stderr.String())
		}
	}
}

func TestPushCommandRenamedStyle(t *testing.T) {
	srv := cyresttest.New()
	defer srv.Close()
	srv.RenameStyle = func(title string) string { return title + " (server)" }
	h := newHarness(t)

	args := append([]string{"push", fixture}, serverFlags(t, srv)...)
	if err := h.run(args...); err != nil {
		t.Fatalf("push: %v", err)
	}
	if want := `registered the style as "My Visual Style (server)"`; !strings.Contains(h.out.String(), want) {
		t.Errorf("output missing %q:\n%s", want, h.out.String())
	}
	if got := srv.AppliedStyle(52); got != "My Visual Style (server)" {
		t.Errorf("applied style = %q", got)
	}
}
