package gstd_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/pkg/gstd"
)

func TestEnvelope_HasResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want bool
	}{
		{body: `{"code":0,"description":"Success","response":{"type":"eos"}}`, want: true},
		{body: `{"code":0,"description":"Success","response":"x"}`, want: true},
		{body: `{"code":0,"description":"Success","response":null}`, want: false},
		{body: `{"code":0,"description":"Success"}`, want: false},
	}

	for _, testCase := range tests {
		var envelope gstd.Envelope

		require.NoError(t, json.Unmarshal([]byte(testCase.body), &envelope))
		assert.Equal(t, testCase.want, envelope.HasResponse(), testCase.body)
	}
}

func TestNodeList_Names(t *testing.T) {
	t.Parallel()

	var nodes gstd.NodeList

	err := json.Unmarshal([]byte(`{"name":"elements","nodes":[{"name":"src"},{"name":"x264enc0"},{"name":"sink"}]}`), &nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "x264enc0", "sink"}, nodes.Names())

	empty := gstd.NodeList{}
	assert.Empty(t, empty.Names())
}

func TestProperty_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  string
	}{
		{value: `2048`, want: "2048"},
		{value: `"zerolatency"`, want: "zerolatency"},
		{value: `true`, want: "true"},
		{value: `0.5`, want: "0.5"},
		{value: ``, want: ""},
	}

	for _, testCase := range tests {
		prop := gstd.Property{Name: "p", Value: json.RawMessage(testCase.value)}
		assert.Equal(t, testCase.want, prop.Text())
	}
}

func TestParseState(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]gstd.State{
		"PLAYING": gstd.StatePlaying,
		"play":    gstd.StatePlaying,
		"paused":  gstd.StatePaused,
		" null ":  gstd.StateNull,
		"stop":    gstd.StateNull,
	} {
		got, err := gstd.ParseState(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
		assert.True(t, got.Valid())
	}

	_, err := gstd.ParseState("ready")
	require.ErrorIs(t, err, gstd.ErrUnknownState)
	assert.False(t, gstd.State("ready").Valid())
}

func TestSeekParams_Description(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 3 1 1 0 1 -1", gstd.DefaultSeekParams().Description())

	params := gstd.SeekParams{Rate: -2, Format: 3, Flags: 5, StartType: 1, Start: 1000, EndType: 0, End: 0}
	assert.Equal(t, "-2 3 5 1 1000 0 0", params.Description())
}

func TestDebugLevel_Valid(t *testing.T) {
	t.Parallel()

	for level := gstd.DebugLevel(-2); level <= 10; level++ {
		want := (level >= 0 && level <= 7) || level == 9
		assert.Equal(t, want, level.Valid(), "level %d", level)
	}
}

func TestTimeoutValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1000000000", gstd.BusTimeoutValue(time.Second))
	assert.Equal(t, "-1", gstd.BusTimeoutValue(gstd.WaitForever))
	assert.Equal(t, "0", gstd.BusTimeoutValue(0))

	assert.Equal(t, "1000000", gstd.SignalTimeoutValue(time.Second))
	assert.Equal(t, "-1", gstd.SignalTimeoutValue(-time.Minute))
}

type bitrate int

func (b bitrate) String() string { return "kbps" }

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2048", gstd.FormatValue(2048))
	assert.Equal(t, "0.25", gstd.FormatValue(0.25))
	assert.Equal(t, "0.1", gstd.FormatValue(float32(0.1)))
	assert.Equal(t, "true", gstd.FormatValue(true))
	assert.Equal(t, "hello world", gstd.FormatValue("hello world"))
	assert.Equal(t, "raw", gstd.FormatValue([]byte("raw")))
	assert.Equal(t, "kbps", gstd.FormatValue(bitrate(5)))
	assert.Empty(t, gstd.FormatValue(nil))
}
