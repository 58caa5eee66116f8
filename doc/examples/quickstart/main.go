package quickstart

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/broady/declgen/emit"
	"github.com/broady/declgen/manifest"
	"github.com/broady/declgen/provider"
)

func exampleFromSource(ctx context.Context) {
	// [snippet:from-source]
	_, err := emit.FromSource(provider.SourceOptions{
		Packages: []string{"./..."},
		Version:  "1.0.0",
	}).ToDir(ctx, "./Generated")
	// [/snippet:from-source]
	if err != nil {
		log.Fatal(err)
	}
}

func exampleFromManifest(ctx context.Context) {
	// [snippet:from-manifest]
	m, err := manifest.Load("types.yaml")
	if err != nil {
		log.Fatal(err)
	}
	res, err := emit.FromManifest(m).
		WithLogger(zap.NewExample()).
		WithScaffolds().
		ToDir(ctx, "./Generated")
	// [/snippet:from-manifest]
	if err != nil {
		log.Fatal(err)
	}
	for _, f := range res.Files {
		log.Println(f.Path, f.Header.Hash)
	}
}

func exampleCheck(ctx context.Context, m *manifest.Manifest) {
	// [snippet:check]
	reports, err := emit.FromManifest(m).CheckDir(ctx, "./Generated")
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range emit.Stale(reports) {
		log.Printf("%s: %s (%s)", r.Path, r.Status, r.Reason)
	}
	// [/snippet:check]
}
