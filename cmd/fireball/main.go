package main

import (
	"flag"

	"fireball/internal/fireball"
)

var (
	// audioFileFlag supplies the last-resort analysis source, used only
	// when both capture tiers fail.
	audioFileFlag = flag.String("audio-file", "", "wav/mp3 file to analyze when no capture source is available")

	// shapeFlag selects the displaced primitive.
	shapeFlag = flag.String("shape", "sphere", "surface to displace: sphere or plane")

	// subdivFlag controls icosphere density.
	subdivFlag = flag.Int("subdiv", 4, "icosphere subdivision level (1-6)")

	// noAudioFlag starts with audio reactivity off (toggle with A).
	noAudioFlag = flag.Bool("no-audio", false, "start with audio reactivity disabled")
)

func main() {
	flag.Parse()
	fireball.RunDesktop(fireball.Options{
		AudioFile:    *audioFileFlag,
		Shape:        *shapeFlag,
		Subdivisions: *subdivFlag,
		NoAudio:      *noAudioFlag,
	})
}
