package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRender_PNG(t *testing.T) {
	series := core.PriceSeries{
		Symbol: "AAPL",
		Bars:   barsEvery(time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC), 30*time.Minute, 13),
	}

	png, err := NewRenderer(WithSize(400, 200)).Render(series, "1d")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRender_FlatSeries(t *testing.T) {
	bars := barsEvery(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour, 5)
	for i := range bars {
		bars[i].Close = 42
	}

	png, err := NewRenderer().Render(core.PriceSeries{Bars: bars}, "1mo")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRender_TooFewBars(t *testing.T) {
	r := NewRenderer()
	for _, n := range []int{0, 1} {
		series := core.PriceSeries{Bars: barsEvery(time.Now(), time.Hour, n)}
		_, err := r.Render(series, "1d")
		assert.True(t, errors.Is(err, core.ErrChartFailed), "n=%d", n)
	}
}

func TestRender_VolumePanel(t *testing.T) {
	bars := barsEvery(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), 24*time.Hour, 10)
	for i := range bars {
		bars[i].Volume = int64(1_000_000 + i*250_000)
	}
	series := core.PriceSeries{Symbol: "AAPL", Bars: bars}

	out, err := NewRenderer(WithSize(400, 200), WithVolume(80)).Render(series, "1mo")
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 280, cfg.Height)
}

func TestRender_VolumePanelSkippedWithoutVolume(t *testing.T) {
	series := core.PriceSeries{Bars: barsEvery(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), 24*time.Hour, 5)}

	out, err := NewRenderer(WithSize(400, 200), WithVolume(80)).Render(series, "5d")
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Height)
}

func TestRender_EmptyPeriodTitle(t *testing.T) {
	series := core.PriceSeries{Bars: barsEvery(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), 24*time.Hour, 5)}

	out, err := NewRenderer(WithSize(400, 200)).Render(series, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngMagic))
}

func TestVolumeLabel(t *testing.T) {
	assert.Equal(t, "950", volumeLabel(950.0))
	assert.Equal(t, "1.5K", volumeLabel(1500.0))
	assert.Equal(t, "2.3M", volumeLabel(2_340_000.0))
	assert.Equal(t, "1.0B", volumeLabel(1e9))
	assert.Equal(t, "", volumeLabel("x"))
}

func TestNewRenderer_Options(t *testing.T) {
	r := NewRenderer(WithSize(0, 300), WithLocation(nil), WithVolume(-5))
	assert.Equal(t, DefaultWidth, r.width)
	assert.Equal(t, 300, r.height)
	assert.Equal(t, 0, r.volumeHeight)
	assert.Equal(t, time.UTC, r.location)
}

func TestEncodeBase64(t *testing.T) {
	enc := EncodeBase64(pngMagic)
	dec, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, dec)
}
