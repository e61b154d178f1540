// Package audio mixes the assembled speech track over a background loop.
//
// Mixing shells out to ffprobe and ffmpeg. Timing is computed up front by
// NewPlan so offsets and margins can be checked without running any binary.
// Mixer.Mix never fails: when the background cannot be fetched or ffmpeg
// cannot render, the speech track is returned unchanged.
package audio
