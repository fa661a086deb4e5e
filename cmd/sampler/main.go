// Command sampler draws weighted samples from a WCSP problem file using
// IJGP-guided backtracking search.
package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ludekcigler/ijgpsampler/config"
	"github.com/ludekcigler/ijgpsampler/internal/obslog"
	"github.com/ludekcigler/ijgpsampler/metrics"
	"github.com/ludekcigler/ijgpsampler/pkg/ijgp"
	"github.com/ludekcigler/ijgpsampler/wcspformat"
)

const hardConstraintWeight = 1 << 20

func main() {
	var (
		configPath string
		cfg        flagConfig
	)

	root := &cobra.Command{
		Use:   "sampler",
		Short: "Draw weighted samples from a WCSP problem via Iterative Join-Graph Propagation",
		Long: `sampler loads a weighted constraint satisfaction problem in the WCSP text
format and draws samples from its solution space. Each sample is produced by
a backtracking search that uses Generalized Arc Consistency to prune domains
and an IJGP join graph's conditional distributions to choose each variable's
value, so sample frequency approximates the relative likelihood the
constraint weights imply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, cfg)
		},
	}

	flags := root.Flags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file (flags below override it)")
	flags.StringVar(&cfg.sampler, "sampler", "", "sampler kind: \"point\" or \"interval\"")
	flags.StringVar(&cfg.dataset, "dataset", "", "path to a WCSP problem file")
	flags.IntVar(&cfg.ijgpIterations, "ijgpIter", 0, "maximum IJGP convergence iterations per propagation round")
	flags.IntVarP(&cfg.bucketSize, "bucketSize", "b", 0, "mini-bucket schematization bound")
	flags.Float64VarP(&cfg.ijgpProbability, "ijgpProbability", "p", 0, "probability of running IJGP before each non-first variable")
	flags.IntVar(&cfg.burnIn, "burnIn", 0, "number of leading samples to discard")
	flags.IntVarP(&cfg.numSamples, "numSamples", "n", 0, "number of samples to draw and print")
	flags.IntVar(&cfg.domainIntervals, "domainIntervals", 0, "interval sampler: max intervals per variable domain")
	flags.IntVar(&cfg.valuesFromInterval, "valuesFromInterval", 0, "interval sampler: representative values sampled per interval")
	flags.StringVar(&cfg.intelModelType, "intelModelType", "", "accepted for compatibility but not used; problems are loaded only from a WCSP --dataset")
	flags.Float64VarP(&cfg.koef, "koef", "k", 0, "exponential weighting coefficient (overrides the default cost table's ExpK)")
	flags.BoolVar(&cfg.metricsEnabled, "metrics", false, "serve Prometheus metrics")
	flags.StringVar(&cfg.metricsAddr, "metricsAddr", "", "address to serve Prometheus metrics on")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagConfig mirrors config.Config's Sampler/Metrics fields as plain flag
// destinations; zero values mean "not set on the command line" and are left
// to the loaded config/defaults by applyFlags.
type flagConfig struct {
	sampler            string
	dataset            string
	ijgpIterations     int
	bucketSize         int
	ijgpProbability    float64
	burnIn             int
	numSamples         int
	domainIntervals    int
	valuesFromInterval int
	intelModelType     string
	koef               float64
	metricsEnabled     bool
	metricsAddr        string
}

func applyFlags(cfg *config.Config, f flagConfig) {
	if f.sampler != "" {
		cfg.Sampler.Kind = f.sampler
	}
	if f.dataset != "" {
		cfg.Sampler.Dataset = f.dataset
	}
	if f.ijgpIterations != 0 {
		cfg.Sampler.IJGPIterations = f.ijgpIterations
	}
	if f.bucketSize != 0 {
		cfg.Sampler.BucketSize = f.bucketSize
	}
	if f.ijgpProbability != 0 {
		cfg.Sampler.IJGPProbability = f.ijgpProbability
	}
	if f.burnIn != 0 {
		cfg.Sampler.BurnIn = f.burnIn
	}
	if f.numSamples != 0 {
		cfg.Sampler.NumSamples = f.numSamples
	}
	if f.domainIntervals != 0 {
		cfg.Sampler.DomainIntervals = f.domainIntervals
	}
	if f.valuesFromInterval != 0 {
		cfg.Sampler.ValuesFromInterval = f.valuesFromInterval
	}
	if f.metricsEnabled {
		cfg.Metrics.Enabled = true
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

func run(configPath string, flags flagConfig) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Sampler.Dataset == "" {
		return fmt.Errorf("sampler: --dataset is required")
	}

	logger := obslog.New(obslog.Config{Level: obslog.Level(cfg.Logging.Level), Format: obslog.Format(cfg.Logging.Format)})

	var recorder ijgp.Recorder = metrics.Noop{}
	if cfg.Metrics.Enabled {
		collectors := metrics.NewCollectors(prometheus.DefaultRegisterer)
		recorder = collectors
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Info("serving metrics", map[string]interface{}{"addr": cfg.Metrics.Addr})
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics server stopped", err, nil)
			}
		}()
	}

	costs := ijgp.DefaultCosts()
	if flags.koef != 0 {
		costs.ExpK = flags.koef
	}

	f, err := os.Open(cfg.Sampler.Dataset)
	if err != nil {
		return fmt.Errorf("sampler: open dataset: %w", err)
	}
	defer f.Close()

	problem, _, err := wcspformat.Parse(f, costs)
	if err != nil {
		return fmt.Errorf("sampler: parse dataset: %w", err)
	}
	if err := problem.Validate(); err != nil {
		return fmt.Errorf("sampler: invalid problem: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Sampler.Seed))

	// The join graph is built once and reused across every draw, matching
	// the original sampler's one-time construction: each GetSample call
	// restores the domains it narrowed, while messages stay in the graph and
	// are recomputed by later IJGP passes; the topology is never rebuilt.
	var s interface{ GetSample(ijgp.Assignment) bool }
	if cfg.Sampler.Kind == "interval" {
		is, err := ijgp.NewIntervalSampler(problem, ijgp.IntervalSamplerConfig{
			SamplerConfig: ijgp.SamplerConfig{
				MaxBucketSize:     cfg.Sampler.BucketSize,
				IJGPProbability:   cfg.Sampler.IJGPProbability,
				MaxIJGPIterations: cfg.Sampler.IJGPIterations,
			},
			MaxDomainIntervals:    cfg.Sampler.DomainIntervals,
			MaxValuesFromInterval: cfg.Sampler.ValuesFromInterval,
		}, rng)
		if err != nil {
			return fmt.Errorf("sampler: build interval sampler: %w", err)
		}
		is.SetLogger(logger)
		is.SetRecorder(recorder)
		s = is
	} else {
		ps, err := ijgp.NewSampler(problem, ijgp.SamplerConfig{
			MaxBucketSize:     cfg.Sampler.BucketSize,
			IJGPProbability:   cfg.Sampler.IJGPProbability,
			MaxIJGPIterations: cfg.Sampler.IJGPIterations,
		}, rng)
		if err != nil {
			return fmt.Errorf("sampler: build sampler: %w", err)
		}
		ps.SetLogger(logger)
		ps.SetRecorder(recorder)
		s = ps
	}

	draw := func() (ijgp.Assignment, bool) {
		out := ijgp.Assignment{}
		return out, s.GetSample(out)
	}

	for i := 0; i < cfg.Sampler.BurnIn; i++ {
		draw()
	}

	for i := 0; i < cfg.Sampler.NumSamples; i++ {
		a, ok := draw()
		if !ok {
			logger.Warn("sample draw failed", map[string]interface{}{"index": i})
			continue
		}
		fmt.Println(a.String())
	}

	return nil
}
