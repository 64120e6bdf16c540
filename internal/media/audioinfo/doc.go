// Package audioinfo reads technical metadata (sample rate, channel count,
// sample count) from audio file headers without decoding any audio.
//
// WAV files are parsed natively from the RIFF header. Other containers fall
// back to an ffprobe inspection. Unreadable files are reported with
// manifest.ErrUnreadableAudio so corpus scans can skip and continue.
package audioinfo
