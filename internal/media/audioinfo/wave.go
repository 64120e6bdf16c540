package audioinfo

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"loom/internal/manifest"
)

// probeWave parses the RIFF/WAVE header: the fmt chunk for sample rate and
// channel layout, the data chunk size for the sample count. Audio payload
// bytes are never read.
func probeWave(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, manifest.Wrap(manifest.ErrUnreadableAudio, "audioinfo", "open wav", path, err)
	}
	defer file.Close()

	info, err := parseWave(file)
	if err != nil {
		return Info{}, manifest.Wrap(manifest.ErrUnreadableAudio, "audioinfo", "parse wav", path, err)
	}
	return info, nil
}

func parseWave(r io.ReadSeeker) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Info{}, fmt.Errorf("read riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Info{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		info       Info
		blockAlign uint16
		haveFmt    bool
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return Info{}, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return Info{}, fmt.Errorf("fmt chunk too small: %d bytes", size)
			}
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return Info{}, fmt.Errorf("read fmt chunk: %w", err)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			blockAlign = binary.LittleEndian.Uint16(fmtChunk[12:14])
			haveFmt = true
			if rest := int64(size) - 16; rest > 0 {
				if _, err := r.Seek(rest+int64(size%2), io.SeekCurrent); err != nil {
					return Info{}, err
				}
			} else if size%2 == 1 {
				if _, err := r.Seek(1, io.SeekCurrent); err != nil {
					return Info{}, err
				}
			}
		case "data":
			if !haveFmt {
				return Info{}, fmt.Errorf("data chunk before fmt chunk")
			}
			if blockAlign == 0 {
				return Info{}, fmt.Errorf("fmt chunk has zero block align")
			}
			info.NumSamples = int64(size) / int64(blockAlign)
			if info.SampleRate > 0 {
				info.Duration = float64(info.NumSamples) / float64(info.SampleRate)
			}
			return info, nil
		default:
			// Skip unknown chunks; chunk payloads are padded to even length.
			if _, err := r.Seek(int64(size)+int64(size%2), io.SeekCurrent); err != nil {
				return Info{}, fmt.Errorf("skip %s chunk: %w", id, err)
			}
		}
	}
	return Info{}, fmt.Errorf("no data chunk found")
}
