package model

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRepository() Repository {
	return Repository{
		URL:  "http://example.test/debian",
		Flat: false,
		Suites: []Suite{
			{
				Name:          "stable",
				URL:           "http://example.test/debian/dists/stable",
				Architectures: []string{"amd64"},
				Date:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				Components: []Component{
					{
						Name: "main",
						URL:  "http://example.test/debian/dists/stable/main",
						Packages: []Package{
							{Name: "poem", Version: "1.0", Architecture: "amd64"},
						},
					},
				},
			},
		},
	}
}

func TestExporterAppendAndRepositories(t *testing.T) {
	e := NewExporter()
	e.Append(sampleRepository())

	repos := e.Repositories()
	require.Len(t, repos, 1)
	assert.Equal(t, "stable", repos[0].Suites[0].Name)

	// the returned slice is a defensive copy
	repos[0].Suites[0].Name = "mutated"
	assert.Equal(t, "stable", e.Repositories()[0].Suites[0].Name)
}

func TestExporterSaveAndLoadJSON(t *testing.T) {
	e := NewExporter(sampleRepository())

	var buf bytes.Buffer
	require.NoError(t, e.SaveJSON(&buf))

	loaded, err := LoadExporterJSON(&buf)
	require.NoError(t, err)

	repos := loaded.Repositories()
	require.Len(t, repos, 1)
	assert.Equal(t, "poem", repos[0].Suites[0].Components[0].Packages[0].Name)
}

func TestFlatSuiteCarriesSinglePackage(t *testing.T) {
	fs := FlatSuite{
		Name:    "",
		URL:     "http://example.test/debian",
		Package: Package{Name: "poem", Version: "1.0"},
	}
	assert.Equal(t, "poem", fs.Package.Name)
}
