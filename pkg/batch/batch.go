// Package batch converts many plot files, each in isolation: one bad file is
// counted and reported but never stops the others.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"pltpages/pkg/cfg"
	"pltpages/pkg/convert"
	"pltpages/pkg/gcode"
	"pltpages/pkg/layout"
	"pltpages/pkg/pdf"
	"pltpages/pkg/render"
	"pltpages/pkg/svg"
)

// Job is one input file and the file it renders to.
type Job struct {
	Input  string
	Output string
}

// Outcome of one job. Err is nil on success.
type Outcome struct {
	Job    Job
	Result convert.Result
	Err    error
}

type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	// Outcomes are in job order.
	Outcomes []Outcome
}

func isPlot(name string) bool {
	return strings.HasSuffix(name, ".plt") || strings.HasSuffix(name, ".PLT")
}

// Discover expands paths into plot files. Directories contribute their
// *.plt and *.PLT entries, files are taken as given. The result is sorted
// and free of duplicates.
func Discover(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && isPlot(e.Name()) {
				add(filepath.Join(p, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Extension of the output file for a format.
func Extension(format string) string {
	if format == cfg.FormatGCode {
		return ".gcode"
	}
	return "." + format
}

// OutputName names the output of input: <base>.<ext> for a single sheet,
// <base>_<PAGE>_overlap.<ext> for step tiling and <base>_<PAGE>_overlay.<ext>
// for margin-overlay tiling.
func OutputName(input string, c cfg.Config) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch c.Policy {
	case layout.StepName:
		base += "_" + c.PageName() + "_overlap"
	case layout.MarginOverlayName:
		base += "_" + c.PageName() + "_overlay"
	}
	return base + Extension(c.Format)
}

// Plan pairs each input with its output path in dir.
func Plan(inputs []string, dir string, c cfg.Config) []Job {
	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		jobs[i] = Job{Input: in, Output: filepath.Join(dir, OutputName(in, c))}
	}
	return jobs
}

// NewSink builds the drawing sink for format writing to w.
func NewSink(format string, policy layout.Policy, w io.Writer) (render.Sink, error) {
	switch format {
	case cfg.FormatPDF:
		options := pdf.DefaultOptions
		if _, ok := policy.(layout.MarginOverlay); ok {
			options.GuideGray = 0.5
		}
		return pdf.New(w, options), nil
	case cfg.FormatSVG:
		return svg.New(w), nil
	case cfg.FormatGCode:
		return gcode.New(w, gcode.DefaultOptions), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", cfg.ErrInvalidConfig, format)
}

// Runner converts jobs with up to Jobs files in flight.
type Runner struct {
	Format    string
	Policy    layout.Policy
	Jobs      int
	Converter *convert.Converter
	// Logger receives a line when a file starts and one when it finishes.
	// Nil is silent.
	Logger *log.Logger
}

// NewRunner builds a runner from a validated config.
func NewRunner(c cfg.Config, logger *log.Logger) (*Runner, error) {
	policy, err := c.TilingPolicy()
	if err != nil {
		return nil, err
	}
	return &Runner{
		Format:    c.Format,
		Policy:    policy,
		Jobs:      c.Jobs,
		Converter: &convert.Converter{},
		Logger:    logger,
	}, nil
}

// One converts a single job. The output file is written only when the whole
// document rendered.
func (r *Runner) One(job Job) (convert.Result, error) {
	in, err := os.Open(job.Input)
	if err != nil {
		return convert.Result{}, err
	}
	defer in.Close()

	var buf bytes.Buffer
	sink, err := NewSink(r.Format, r.Policy, &buf)
	if err != nil {
		return convert.Result{}, err
	}
	res, err := r.Converter.Convert(in, r.Policy, sink)
	if err != nil {
		return convert.Result{}, err
	}
	if dir := filepath.Dir(job.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return convert.Result{}, err
		}
	}
	if err := os.WriteFile(job.Output, buf.Bytes(), 0o644); err != nil {
		return convert.Result{}, err
	}
	return res, nil
}

// Run converts every job and returns the tally. Jobs not yet started when
// ctx is cancelled fail with the context error.
func (r *Runner) Run(ctx context.Context, jobs []Job) Summary {
	workers := r.Jobs
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome, len(jobs))

	var mu sync.Mutex
	done := 0
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{Job: job, Err: err}
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()

			if r.Logger != nil {
				r.Logger.Printf("[%d/%d] processing %s", i+1, len(jobs), filepath.Base(job.Input))
			}
			res, err := r.One(job)
			if err != nil {
				err = fmt.Errorf("%s: %w", filepath.Base(job.Input), err)
			}
			outcomes[i] = Outcome{Job: job, Result: res, Err: err}

			mu.Lock()
			done++
			r.report(done, len(jobs), outcomes[i])
			mu.Unlock()
		}(i, job)
	}
	wg.Wait()

	s := Summary{Total: len(jobs), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}

func (r *Runner) report(i, n int, o Outcome) {
	if r.Logger == nil {
		return
	}
	name := filepath.Base(o.Job.Input)
	if o.Err != nil {
		r.Logger.Printf("[%d/%d] ✗ %s", i, n, o.Err)
		return
	}
	r.Logger.Printf("[%d/%d] ✓ %s -> %s (%d pages)", i, n, name, filepath.Base(o.Job.Output), o.Result.Pages)
}
