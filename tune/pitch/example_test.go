package pitch_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tune/tune/pitch"
)

func ExampleDetect() {
	const sampleRate = 44100.0

	// Half a second of A4.
	signal := make([]float64, 22050)
	for i := range signal {
		signal[i] = 0.8 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	track, err := pitch.Detect(signal, pitch.Config{SampleRate: sampleRate})
	if err != nil {
		panic(err)
	}

	f := track.Frames[10]
	fmt.Println("voiced:", f.Voiced)
	fmt.Println("note:", f.NoteName)
	// Output:
	// voiced: true
	// note: A4
}

func ExampleSmooth() {
	const sampleRate = 44100.0

	signal := make([]float64, 22050)
	for i := range signal {
		signal[i] = 0.8 * math.Sin(2*math.Pi*220*float64(i)/sampleRate)
	}

	track, err := pitch.Detect(signal, pitch.Config{SampleRate: sampleRate})
	if err != nil {
		panic(err)
	}

	smoothed, err := pitch.Smooth(track, pitch.DefaultMedianWindow)
	if err != nil {
		panic(err)
	}

	fmt.Println("frames:", len(smoothed) == len(track.Frames))
	// Output: frames: true
}
