// Command peaklimit-bench exercises the limiter with noise and sine test
// signals: it dumps a block of input/output samples to CSV, times the
// block-processing routine, and reports levels and harmonic distortion.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/peaklimit/pkg/debug"
	"github.com/justyntemme/peaklimit/pkg/dsp/analysis"
	"github.com/justyntemme/peaklimit/pkg/dsp/dynamics"
	"github.com/justyntemme/peaklimit/pkg/dsp/oscillator"
	"github.com/justyntemme/peaklimit/pkg/dsp/utility"
)

var (
	mutedColor = lipgloss.Color("#888888")
	textColor  = lipgloss.Color("#FFFFFF")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFAF")).MarginBottom(1)
	keyStyle   = lipgloss.NewStyle().Foreground(mutedColor).Width(24)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(textColor)
)

// CLI defines the command-line interface
type CLI struct {
	SampleRate float64 `help:"Sample rate in Hz." default:"48000"`
	Block      int     `help:"Block size in samples." default:"4096"`
	Iterations int     `help:"Timing iterations." default:"10000"`
	PreGain    float64 `help:"Pre-gain in dB." default:"60"`
	Attack     float64 `help:"Attack time in seconds." default:"0.01"`
	Hold       float64 `help:"Hold time in seconds." default:"0.01"`
	Release    float64 `help:"Release time in seconds." default:"0.1"`
	Threshold  float64 `help:"Ceiling in dB." default:"-0.3"`
	Seed       int64   `help:"Noise generator seed." default:"12345"`
	CSV        string  `help:"Write one block of input/output samples to this file." type:"path"`
	THD        bool    `help:"Measure THD on a limited 1 kHz sine."`
	Verbose    bool    `short:"v" help:"Enable debug logging."`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("peaklimit-bench"),
		kong.Description("Benchmark and measurement harness for the look-ahead peak limiter."),
		kong.UsageOnError(),
	)

	level := debug.LogLevelInfo
	if cli.Verbose {
		level = debug.LogLevelDebug
	}
	log := debug.NewLogger(os.Stderr, "bench", level)

	if cli.Block < 1 {
		log.Errorf("block size must be positive, got %d", cli.Block)
		os.Exit(1)
	}
	if cli.Iterations < 1 {
		log.Errorf("iterations must be positive, got %d", cli.Iterations)
		os.Exit(1)
	}

	cfg := dynamics.LimiterConfig[float64]{
		SampleRate:  cli.SampleRate,
		PreGainDB:   cli.PreGain,
		Attack:      cli.Attack,
		Hold:        cli.Hold,
		Release:     cli.Release,
		ThresholdDB: cli.Threshold,
	}
	limiter := dynamics.NewLimiterFromConfig(cfg)
	log.Debugf("lookahead: %d samples", limiter.Lookahead())

	noise := utility.NewNoiseGenerator[float64]()
	noise.SetSeed(cli.Seed)

	inL := make([]float64, cli.Block)
	inR := make([]float64, cli.Block)
	outL := make([]float64, cli.Block)
	outR := make([]float64, cli.Block)

	// One block for the CSV dump, so the file always reflects the same
	// limiter state regardless of the iteration count.
	noise.Process(inL)
	noise.Process(inR)
	limiter.Process(inL, inR, outL, outR)
	if cli.CSV != "" {
		if err := writeCSV(cli.CSV, inL, inR, outL, outR); err != nil {
			log.Errorf("csv dump: %v", err)
			os.Exit(1)
		}
		log.Infof("wrote %s", cli.CSV)
	}

	prof := debug.NewProfiler(cli.Iterations)
	for i := 0; i < cli.Iterations; i++ {
		prof.Time("limiter.Process", func() {
			limiter.Process(inL, inR, outL, outR)
		})
		noise.Process(inL)
		noise.Process(inR)
	}

	peak := analysis.NewPeakMeter(cli.SampleRate)
	rms := analysis.NewRMSMeter(cli.Block)
	peak.Process(outL)
	rms.Process(outL)

	fmt.Println(titleStyle.Render("peaklimit-bench"))
	printKV("Sample rate", fmt.Sprintf("%.0f Hz", cli.SampleRate))
	printKV("Block size", strconv.Itoa(cli.Block))
	printKV("Lookahead", fmt.Sprintf("%d samples", limiter.Lookahead()))
	printKV("Pre-gain", fmt.Sprintf("%+.1f dB", cli.PreGain))
	printKV("Ceiling", fmt.Sprintf("%+.2f dB", cli.Threshold))
	printKV("Output peak", fmt.Sprintf("%+.2f dBFS", peak.GetPeakDB()))
	printKV("Output RMS", fmt.Sprintf("%+.2f dBFS", rms.GetRMSDB()))
	printKV("Gain reduction", fmt.Sprintf("%.2f dB", limiter.GetGainReduction()))

	if cli.THD {
		thd, err := measureTHD(cfg)
		if err != nil {
			log.Errorf("thd: %v", err)
			os.Exit(1)
		}
		printKV("THD (1 kHz sine)", fmt.Sprintf("%.4f %%", thd*100.0))
	}

	fmt.Println()
	fmt.Println(prof.Report())
}

func printKV(key, value string) {
	fmt.Printf("%s %s\n", keyStyle.Render(key), valueStyle.Render(value))
}

// measureTHD drives a full-scale 1 kHz sine through a fresh limiter until
// the envelope has settled, then measures the harmonic distortion of the
// limited output.
func measureTHD(cfg dynamics.LimiterConfig[float64]) (float64, error) {
	const window = 8192

	limiter := dynamics.NewLimiterFromConfig(cfg)
	osc := oscillator.New[float64](cfg.SampleRate)
	osc.SetFrequency(1000.0)

	in := make([]float64, window)
	outL := make([]float64, window)
	outR := make([]float64, window)

	// Several windows of settling: parameter smoothers, look-ahead fill,
	// and envelope convergence.
	for i := 0; i < 16; i++ {
		osc.ProcessSine(in)
		limiter.Process(in, in, outL, outR)
	}

	an, err := analysis.NewTHDAnalyzer(window)
	if err != nil {
		return 0, err
	}
	thd, _, err := an.Measure(outL)
	return thd, err
}

func writeCSV(path string, inL, inR, outL, outR []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	err = w.Write([]string{"index", "inL", "inR", "outL", "outR"})
	row := make([]string, 5)
	for i := 0; err == nil && i < len(inL); i++ {
		row[0] = strconv.Itoa(i)
		row[1] = formatSample(inL[i])
		row[2] = formatSample(inR[i])
		row[3] = formatSample(outL[i])
		row[4] = formatSample(outR[i])
		err = w.Write(row)
	}
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func formatSample(v float64) string {
	return strconv.FormatFloat(v, 'f', 17, 64)
}
