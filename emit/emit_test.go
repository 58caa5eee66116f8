package emit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/broady/declgen"
	"github.com/broady/declgen/csharp"
	"github.com/broady/declgen/manifest"
	"github.com/broady/declgen/provider"
	"github.com/broady/declgen/scaffold"
	"github.com/broady/declgen/sink"
	"github.com/broady/declgen/testutil"
)

const ids = `package: acme
version: 1.2.0
namespace: Acme.Ids
types:
  - name: UserId
    kind: struct
    modifiers: [readonly]
    backing: {special: guid}
    capabilities: [wrapper, equality, arithmetic]
  - name: Email
    kind: class
    accessor: Address
    backing: {special: string, nullable: true}
    capabilities: ["comparison?comparison=OrdinalIgnoreCase"]
`

func parse(t *testing.T, text string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(text))
	require.NoError(t, err)
	return m
}

func files(res *Result) map[string][]byte {
	out := make(map[string][]byte, len(res.Files))
	for _, f := range res.Files {
		out[f.Path] = f.Content
	}
	return out
}

func TestGolden(t *testing.T) {
	const path = "testdata/guid.txtar"
	ar := testutil.ReadArchive(t, path)
	m := parse(t, string(testutil.File(t, ar, "manifest.yaml")))

	res, err := FromManifest(m).WithScaffolds().Generate(context.Background())
	require.NoError(t, err)
	testutil.AssertGolden(t, path, "out/", files(res))
}

func TestGenerate(t *testing.T) {
	res, err := FromManifest(parse(t, ids)).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	user, ok := res.Find("UserId.g.cs")
	require.True(t, ok)
	assert.Equal(t, "UserId", user.Type)
	assert.False(t, user.Scaffold)
	assert.Equal(t, []declgen.Capability{declgen.CapWrapper, declgen.CapEquality}, user.Applied)
	assert.Equal(t, []declgen.Capability{declgen.CapArithmetic}, user.Skipped)

	text := string(user.Content)
	h, ok := scaffold.Parse(text)
	require.True(t, ok)
	assert.Equal(t, user.Header, h)
	assert.Equal(t, "acme", h.Package)
	assert.Equal(t, "1.2.0", h.Version)
	assert.Equal(t, "UserId", h.Scaffold)
	assert.True(t, scaffold.IsHash(h.Hash))

	assert.Contains(t, text, "namespace Acme.Ids;")
	assert.Contains(t, text, "public readonly partial struct UserId")
	assert.Contains(t, text, "global::System.IEquatable<UserId>")
	assert.Contains(t, text, "Value.Equals(other.Value)")

	email, ok := res.Find("Email.g.cs")
	require.True(t, ok)
	assert.Equal(t, []declgen.Capability{declgen.CapComparison}, email.Applied)
	assert.Contains(t, string(email.Content), "public partial class Email")
	assert.NotEqual(t, user.Header.Hash, email.Header.Hash)

	_, ok = res.Find("scaffolds/UserId.cs.scaffold")
	assert.False(t, ok)
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := FromManifest(parse(t, ids)).WithScaffolds().Generate(context.Background())
	require.NoError(t, err)
	second, err := FromManifest(parse(t, ids)).WithScaffolds().Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, files(first), files(second))
}

func TestScaffolds(t *testing.T) {
	res, err := FromManifest(parse(t, ids)).WithScaffolds().Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Files, 4)

	sc, ok := res.Find(ScaffoldPath("UserId"))
	require.True(t, ok)
	assert.True(t, sc.Scaffold)

	text := string(sc.Content)
	h, rest, ok := scaffold.Split(text)
	require.True(t, ok)
	assert.Equal(t, "UserId", h.Scaffold)
	assert.NotContains(t, rest, "UserId")
	assert.NotContains(t, rest, "Acme.Ids")
	assert.Contains(t, rest, "namespace {{namespace}};")
	assert.Contains(t, rest, "struct {{type}}")
	assert.Contains(t, rest, "{{accessor}}.Equals(other.{{accessor}})")
}

const patterns = `package: acme
version: 1.2.0
namespace: Acme.Io
types:
  - name: Handle
    kind: class
    backing:
      qualified_name: System.IO.Stream
      name: Stream
    capabilities: [wrapper, singleton, disposal?async=true]
  - name: Status
    kind: class
    backing: {special: string}
    capabilities: [wrapper, "enumeration?members=Open&members=Closed"]
`

func TestScaffoldsKeepIdentifiers(t *testing.T) {
	res, err := FromManifest(parse(t, patterns)).WithScaffolds().Generate(context.Background())
	require.NoError(t, err)

	tests := []struct {
		typ     string
		want    []string
		notWant []string
	}{
		{
			typ: "Handle",
			want: []string{
				"class {{type}}",
				"=> _instance.Value",
				"({{accessor}} as global::System.IDisposable)?.Dispose()",
				"global::System.Threading.Tasks.ValueTask DisposeAsync()",
				"asyncDisposable.DisposeAsync()",
			},
			notWant: []string{"_instance.{{accessor}}", "{{accessor}}Task", "Handle"},
		},
		{
			typ: "Status",
			want: []string{
				"public static bool TryFromValue(",
				"item.{{accessor}}",
				"IReadOnlyList<{{type}}>",
			},
			notWant: []string{"TryFrom{{accessor}}", "Status"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			sc, ok := res.Find(ScaffoldPath(tt.typ))
			require.True(t, ok)
			_, rest, ok := scaffold.Split(string(sc.Content))
			require.True(t, ok)
			for _, w := range tt.want {
				assert.Contains(t, rest, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, rest, w)
			}
		})
	}
}

func TestHashBindings(t *testing.T) {
	m := parse(t, ids)
	req, err := m.Types[1].Request(m.Namespace)
	require.NoError(t, err)

	assert.Equal(t, []scaffold.Binding{
		{Key: "package", Value: "acme"},
		{Key: "namespace", Value: "Acme.Ids"},
		{Key: "type", Value: "Email"},
		{Key: "kind", Value: "class"},
		{Key: "access", Value: "public"},
		{Key: "modifiers", Value: "partial"},
		{Key: "accessor", Value: "Address"},
		{Key: "backing", Value: "string?"},
		{Key: "capability", Value: "comparison?comparison=OrdinalIgnoreCase"},
	}, hashBindings(m, req, csharp.DefaultConfig()).Bindings())

	cfg := csharp.DefaultConfig()
	cfg.IndentStyle = "tab"
	cfg.FileScopedNamespace = false
	cfg.Usings = []string{"System.Text"}
	got := hashBindings(m, req, cfg).Bindings()
	assert.Equal(t, []scaffold.Binding{
		{Key: "indent", Value: "tab:4"},
		{Key: "namespace_style", Value: "block"},
		{Key: "config_using", Value: "System.Text"},
	}, got[len(got)-3:])
}

func TestCheckRendererConfig(t *testing.T) {
	ctx := context.Background()
	mem := sink.NewMemory()
	_, err := FromManifest(parse(t, ids)).ToSink(ctx, mem)
	require.NoError(t, err)

	reports, err := FromManifest(parse(t, ids)).WithConfig(csharp.DefaultConfig()).Check(ctx, mem)
	require.NoError(t, err)
	assert.Empty(t, Stale(reports))

	cfg := csharp.DefaultConfig()
	cfg.IndentStyle = "tab"
	cfg.FileScopedNamespace = false
	reports, err = FromManifest(parse(t, ids)).WithConfig(cfg).Check(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, map[string]scaffold.Status{
		"UserId.g.cs": scaffold.StatusStale,
		"Email.g.cs":  scaffold.StatusStale,
	}, statuses(reports))

	// Regenerating with the new settings makes the files fresh again.
	_, err = FromManifest(parse(t, ids)).WithConfig(cfg).ToSink(ctx, mem)
	require.NoError(t, err)
	reports, err = FromManifest(parse(t, ids)).WithConfig(cfg).Check(ctx, mem)
	require.NoError(t, err)
	assert.Empty(t, Stale(reports))
}

func TestVersionPrecedence(t *testing.T) {
	m := parse(t, ids)
	assert.Equal(t, "1.2.0", FromManifest(m).headerVersion(m))
	assert.Equal(t, "3.0.0", FromManifest(m).WithVersion("3.0.0").headerVersion(m))

	m.Version = ""
	assert.Equal(t, DefaultVersion, FromManifest(m).headerVersion(m))
}

func statuses(reports []Report) map[string]scaffold.Status {
	out := make(map[string]scaffold.Status, len(reports))
	for _, r := range reports {
		out[r.Path] = r.Status
	}
	return out
}

func TestCheckDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := FromManifest(parse(t, ids)).WithScaffolds().ToDir(ctx, dir)
	require.NoError(t, err)

	reports, err := FromManifest(parse(t, ids)).WithScaffolds().CheckDir(ctx, dir)
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Empty(t, Stale(reports))

	// A changed capability list changes the fingerprint.
	changed := strings.Replace(ids, "[wrapper, equality, arithmetic]", "[wrapper, equality]", 1)
	reports, err = FromManifest(parse(t, changed)).CheckDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]scaffold.Status{
		"UserId.g.cs": scaffold.StatusStale,
		"Email.g.cs":  scaffold.StatusFresh,
	}, statuses(reports))

	// Same inputs under a newer generator are still fresh; changed inputs
	// are attributed to the version bump.
	reports, err = FromManifest(parse(t, ids)).WithVersion("1.3.0").CheckDir(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, Stale(reports))
	reports, err = FromManifest(parse(t, changed)).WithVersion("1.3.0").CheckDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, scaffold.StatusGeneratorNewer, statuses(reports)["UserId.g.cs"])

	reports, err = FromManifest(parse(t, ids)).WithVersion("1.0.0").CheckDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, scaffold.StatusGeneratorOlder, statuses(reports)["UserId.g.cs"])

	require.NoError(t, os.Remove(filepath.Join(dir, "Email.g.cs")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "UserId.g.cs"), []byte("// hand written\n"), 0o644))
	reports, err = FromManifest(parse(t, ids)).CheckDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]scaffold.Status{
		"UserId.g.cs": scaffold.StatusForeign,
		"Email.g.cs":  scaffold.StatusMissing,
	}, statuses(reports))
}

func TestCheckForeignPackage(t *testing.T) {
	ctx := context.Background()
	mem := sink.NewMemory()
	_, err := FromManifest(parse(t, ids)).ToSink(ctx, mem)
	require.NoError(t, err)

	other := strings.Replace(ids, "package: acme", "package: other", 1)
	reports, err := FromManifest(parse(t, other)).Check(ctx, mem)
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, scaffold.StatusForeign, r.Status, r.Path)
		assert.Contains(t, r.Reason, "@acme")
	}
}

func TestToArchive(t *testing.T) {
	a := sink.NewArchive("")
	_, err := FromManifest(parse(t, ids)).ToSink(context.Background(), a)
	require.NoError(t, err)

	out := string(a.Bytes())
	assert.True(t, strings.HasPrefix(out, "-- Email.g.cs --\n// @acme v1.2.0 hash:"), out)
	assert.Contains(t, out, "\n-- UserId.g.cs --\n")
}

func TestFilteredSink(t *testing.T) {
	mem := sink.NewMemory()
	res, err := FromManifest(parse(t, ids)).WithScaffolds().ToSink(context.Background(), sink.Match(mem, "scaffolds/*"))
	require.NoError(t, err)
	assert.Len(t, res.Files, 4)
	assert.Equal(t, []string{"scaffolds/Email.cs.scaffold", "scaffolds/UserId.cs.scaffold"}, mem.Paths())
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := FromManifest(parse(t, ids)).WithLogger(zap.New(core)).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, logs.FilterMessage("capability applied").Len())
	assert.Equal(t, 1, logs.FilterMessage("capability skipped").Len())
	assert.Equal(t, 2, logs.FilterMessage("wrote file").Len())

	skipped := logs.FilterMessage("capabilities skipped").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "UserId", skipped[0].ContextMap()["type"])

	done := logs.FilterMessage("generation complete").All()
	require.Len(t, done, 1)
	assert.Equal(t, int64(2), done[0].ContextMap()["files"])
}

func TestLoggerDoesNotLeakIntoRegistry(t *testing.T) {
	reg := declgen.DefaultRegistry()
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := FromManifest(parse(t, ids)).WithRegistry(reg).WithLogger(zap.New(core)).Generate(context.Background())
	require.NoError(t, err)
	n := logs.Len()

	_, err = FromManifest(parse(t, ids)).WithRegistry(reg).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, n, logs.Len())
}

func TestGenerateErrors(t *testing.T) {
	t.Run("no input", func(t *testing.T) {
		_, err := FromManifest(nil).Generate(context.Background())
		assert.Equal(t, declgen.CodeInvalidArgument, declgen.CodeOf(err))
	})

	t.Run("same name in two namespaces", func(t *testing.T) {
		m := parse(t, `package: acme
types:
  - {name: Id, namespace: A, backing: {special: guid}}
  - {name: Id, namespace: B, backing: {special: guid}}
`)
		_, err := FromManifest(m).Generate(context.Background())
		require.Error(t, err)
		assert.Equal(t, declgen.CodeInvalidManifest, declgen.CodeOf(err))
		assert.Contains(t, err.Error(), "A.Id and B.Id")
	})

	t.Run("unregistered capability", func(t *testing.T) {
		_, err := FromManifest(parse(t, ids)).WithRegistry(declgen.NewRegistry()).Generate(context.Background())
		require.Error(t, err)
		e := declgen.AsError(err)
		assert.Equal(t, declgen.CodeUnknownCapability, e.Code)
		assert.Equal(t, "UserId", e.Details["type"])
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := FromManifest(parse(t, ids)).Generate(ctx)
		assert.Equal(t, declgen.CodeCanceled, declgen.CodeOf(err))
	})

	t.Run("existing file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "UserId.g.cs"), nil, 0o644))
		s := sink.NewDir(dir)
		s.Overwrite = false
		_, err := FromManifest(parse(t, ids)).ToSink(context.Background(), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write UserId.g.cs")
	})
}

func TestFromSource(t *testing.T) {
	t.Setenv("GOWORK", "off")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/ids\n\ngo 1.21\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ids.go"), []byte(`package ids

// OrderID identifies an order.
//
//declgen:wrapper wrapper equality
type OrderID int64
`), 0o644))

	g := FromSource(provider.SourceOptions{Dir: dir, Packages: []string{"."}, Package: "shop", Version: "0.4.0"})
	res, err := g.Generate(context.Background())
	require.NoError(t, err)

	f, ok := res.Find("OrderID.g.cs")
	require.True(t, ok)
	text := string(f.Content)
	assert.True(t, strings.HasPrefix(text, "// @shop v0.4.0 hash:"), text)
	assert.Contains(t, text, "namespace Ids;")
	assert.Contains(t, text, "/// <summary>\n/// OrderID identifies an order.\n/// </summary>")
	assert.Contains(t, text, "public partial class OrderID")
	assert.Equal(t, []declgen.Capability{declgen.CapWrapper, declgen.CapEquality}, f.Applied)

	// The loaded manifest is reused by later runs.
	m, err := g.Manifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shop", m.Package)
}

func TestPlan(t *testing.T) {
	ctx := context.Background()
	g := FromManifest(parse(t, ids))
	plan, err := g.Plan(ctx)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	res, err := g.Generate(ctx)
	require.NoError(t, err)
	for _, p := range plan {
		f, ok := res.Find(p.Path)
		require.True(t, ok, p.Path)
		assert.Equal(t, f.Header, p.Header)
		assert.Equal(t, p.Header.Hash, scaffold.Hash(p.Bindings...))
	}
	assert.Equal(t, "Email", plan[1].Type)
}

func TestExampleManifest(t *testing.T) {
	m, err := manifest.Load("../examples/orders/types.yaml")
	require.NoError(t, err)

	res, err := FromManifest(m).WithScaffolds().Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Files, 6)

	sku, ok := res.Find("Sku.g.cs")
	require.True(t, ok)
	assert.Contains(t, string(sku.Content), "using System.Globalization;")
	assert.Contains(t, string(sku.Content), "OrdinalIgnoreCase")

	cents, ok := res.Find("Cents.g.cs")
	require.True(t, ok)
	assert.Contains(t, string(cents.Content), "operator +")
	assert.NotContains(t, string(cents.Content), "operator *")
}
