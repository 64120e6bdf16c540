package audioinfo

import (
	"context"
	"encoding/json"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"loom/internal/manifest"
)

type ffprobeResult struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Duration   string `json:"duration"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// probeFFprobe executes ffprobe against the provided path and decodes the
// JSON response. Header inspection only; no audio is decoded.
func probeFFprobe(ctx context.Context, binary, path string) (Info, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Info{}, manifest.Wrap(manifest.ErrUnreadableAudio, "audioinfo", "ffprobe", strings.TrimSpace(string(output)), err)
	}

	var result ffprobeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return Info{}, manifest.Wrap(manifest.ErrUnreadableAudio, "audioinfo", "ffprobe parse", path, err)
	}

	var info Info
	for _, stream := range result.Streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		info.SampleRate = int(parseFloat(stream.SampleRate))
		info.Channels = stream.Channels
		info.Duration = parseFloat(stream.Duration)
		break
	}
	if info.Duration <= 0 {
		info.Duration = parseFloat(result.Format.Duration)
	}
	if info.SampleRate <= 0 || info.Duration <= 0 {
		return Info{}, manifest.Wrap(manifest.ErrUnreadableAudio, "audioinfo", "ffprobe", path+": no usable audio stream", nil)
	}
	info.NumSamples = int64(math.Round(info.Duration * float64(info.SampleRate)))
	return info, nil
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return parsed
}
