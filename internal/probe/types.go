package probe

// Result is the parsed output of one ffprobe JSON call, reduced to the
// fields this pipeline reads. Width/Height and the codec fields describe the
// first stream of each type.
type Result struct {
	FormatName string
	Duration   float64 // Container duration in seconds; 0 when absent.
	Size       int64

	HasVideo   bool
	VideoCodec string
	Width      int
	Height     int

	HasAudio   bool
	AudioCodec string
	SampleRate int
}
