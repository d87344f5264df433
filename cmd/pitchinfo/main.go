// Command pitchinfo analyzes the pitch of mono audio and can hard-tune it.
//
// Input is either a generated test tone or a raw signed 16-bit little-endian
// mono PCM file. The tool prints a per-frame pitch table and can write the
// hard-tuned result back as raw PCM.
//
// Examples:
//
//	pitchinfo --tone 445
//	pitchinfo --raw take.pcm --rate 48000
//	pitchinfo --raw take.pcm --hard-tune tuned.pcm
package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-tune/tune/correct"
	"github.com/cwbudde/algo-tune/tune/pitch"
)

type cli struct {
	Tone     float64 `help:"Generate a test tone at this frequency in Hz instead of reading input." default:"0"`
	Duration float64 `help:"Generated tone duration in seconds." default:"2"`
	Raw      string  `help:"Raw signed 16-bit little-endian mono PCM input file." type:"path" optional:""`
	Rate     float64 `help:"Sample rate in Hz." default:"44100"`
	Every    int     `help:"Print every Nth frame." default:"10"`
	HardTune string  `name:"hard-tune" help:"Write the hard-tuned signal to this raw PCM file." type:"path" optional:""`
}

func main() {
	args := &cli{}
	kong.Parse(args,
		kong.Name("pitchinfo"),
		kong.Description("Mono pitch analysis and hard-tune tool"),
		kong.UsageOnError(),
	)

	signal, err := loadSignal(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pitchinfo: %v\n", err)
		os.Exit(1)
	}

	track, err := pitch.Detect(signal, pitch.Config{SampleRate: args.Rate})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pitchinfo: %v\n", err)
		os.Exit(1)
	}
	smoothed, err := pitch.Smooth(track, pitch.DefaultMedianWindow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pitchinfo: %v\n", err)
		os.Exit(1)
	}

	printTrack(smoothed, track.MedianPitch, args.Every)

	if args.HardTune != "" {
		tuned, err := correct.HardTune(signal, args.Rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pitchinfo: %v\n", err)
			os.Exit(1)
		}
		if err := writeRawPCM(args.HardTune, tuned); err != nil {
			fmt.Fprintf(os.Stderr, "pitchinfo: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%d samples)\n", args.HardTune, len(tuned))
	}
}

func loadSignal(args *cli) ([]float64, error) {
	if args.Raw != "" {
		return readRawPCM(args.Raw)
	}
	if args.Tone <= 0 {
		return nil, fmt.Errorf("either --raw or --tone is required")
	}
	if args.Duration <= 0 {
		return nil, fmt.Errorf("tone duration must be positive: %f", args.Duration)
	}

	length := int(args.Duration * args.Rate)
	out := make([]float64, length)
	step := 2 * math.Pi * args.Tone / args.Rate
	for i := range out {
		out[i] = 0.8 * math.Sin(step*float64(i))
	}
	return out, nil
}

func printTrack(frames []pitch.Frame, medianPitch float64, every int) {
	if every < 1 {
		every = 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "time\tfreq\tnote\tcents\tconf")

	voiced := 0
	for i, f := range frames {
		if f.Voiced {
			voiced++
		}
		if i%every != 0 {
			continue
		}
		if !f.Voiced {
			fmt.Fprintf(w, "%.3f\t-\t-\t-\t-\n", f.Time)
			continue
		}
		fmt.Fprintf(w, "%.3f\t%.1f\t%s\t%+.0f\t%.2f\n",
			f.Time, f.Frequency, f.NoteName, f.CentsOff, f.Confidence)
	}
	w.Flush()

	fmt.Printf("\nframes: %d voiced: %d median: %.1f Hz\n", len(frames), voiced, medianPitch)
}

func readRawPCM(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	out := make([]float64, len(data)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		out[i] = float64(v) / 32768
	}
	return out, nil
}

func writeRawPCM(path string, signal []float64) error {
	data := make([]byte, 2*len(signal))
	for i, v := range signal {
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint16(data[2*i:], uint16(int16(math.Round(v*32767))))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
