package presentation_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awkspace/runfile/internal/presentation"
	"github.com/awkspace/runfile/pkg/domain"
)

func result(name string, status domain.ResultStatus, dur time.Duration) *domain.TargetResult {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.TargetResult{
		Name:     name,
		Status:   status,
		Started:  started,
		Finished: started.Add(dur),
	}
}

func TestPrinter_Status(t *testing.T) {
	var out bytes.Buffer
	printer := presentation.NewPrinter(&out, termenv.Ascii)

	printer.Status(result("build", domain.StatusSuccess, 92*time.Second))
	assert.Contains(t, out.String(), "✔ Completed build. (1m 32s)")

	out.Reset()
	printer.Status(result("build", domain.StatusFailure, time.Second))
	assert.Contains(t, out.String(), "✘ Failed executing build.")

	out.Reset()
	printer.Status(result("build", domain.StatusCached, 0))
	assert.Contains(t, out.String(), "● Used cache for build")

	// Unnamed setup results stay silent.
	out.Reset()
	printer.Status(result("", domain.StatusSuccess, 0))
	assert.Empty(t, out.String())
}

func TestPrinter_Summary(t *testing.T) {
	var out bytes.Buffer
	printer := presentation.NewPrinter(&out, termenv.Ascii)

	printer.Summary([]*domain.TargetResult{
		result("deps", domain.StatusCached, 0),
		result("build", domain.StatusSuccess, 3*time.Second),
	}, time.Now().Add(-5*time.Second))

	s := out.String()
	assert.Contains(t, s, "SUCCESS in 5s")
	assert.Contains(t, s, "---")
	assert.Contains(t, s, "Used cache for deps")
	assert.Contains(t, s, "Completed build.")
}

func TestPrinter_SummaryFailure(t *testing.T) {
	var out bytes.Buffer
	printer := presentation.NewPrinter(&out, termenv.Ascii)

	printer.Summary([]*domain.TargetResult{
		result("build", domain.StatusFailure, time.Second),
	}, time.Now())

	assert.Contains(t, out.String(), "FAILURE in")
}

func TestPrinter_SummaryEmpty(t *testing.T) {
	var out bytes.Buffer
	printer := presentation.NewPrinter(&out, termenv.Ascii)
	printer.Summary(nil, time.Now())
	assert.Empty(t, out.String())
}

func TestListNames(t *testing.T) {
	build := &domain.Target{Name: "build", UniqueName: "build"}
	lint := &domain.Target{Name: "lint", UniqueName: "tools/lint"}
	setup := &domain.Target{}

	var out bytes.Buffer
	presentation.ListNames(&out, []*domain.Target{setup, build, lint})
	assert.Equal(t, "build\ntools/lint\n", out.String())
}

func TestListWithDescriptions(t *testing.T) {
	build := &domain.Target{Name: "build", UniqueName: "build", Description: "Compile."}
	lint := &domain.Target{Name: "lint", UniqueName: "lint"}

	var out bytes.Buffer
	presentation.ListWithDescriptions(&out, []*domain.Target{build, lint})

	require.Equal(t, "build: Compile.\nlint\n", out.String())
}
