package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/geotour/internal/tour"
)

const romeTour = "../../tours/rome.yaml"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseScript(t *testing.T) {
	steps, err := parseScript("12s:jump 9, 2.5s:pause,4s:play,4s:next")
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.Equal(t, 2500*time.Millisecond, steps[0].At)
	assert.Equal(t, tour.CmdPause, steps[0].Cmd.Kind)
	assert.Equal(t, tour.CmdPlay, steps[1].Cmd.Kind)
	assert.Equal(t, tour.CmdNext, steps[2].Cmd.Kind, "same time keeps written order")
	assert.Equal(t, tour.Command{Kind: tour.CmdJumpTo, Index: 9}, steps[3].Cmd)

	steps, err = parseScript(`1s:{"type":"directNavigate","index":3},2s:pause,3s:{"type":"play"}`)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, tour.Command{Kind: tour.CmdDirectNavigate, Index: 3}, steps[0].Cmd)
	assert.Equal(t, tour.CmdPause, steps[1].Cmd.Kind)
	assert.Equal(t, tour.CmdPlay, steps[2].Cmd.Kind)

	empty, err := parseScript("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"pause", "soon:pause", "-1s:pause", "1s:dance"} {
		_, err := parseScript(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitSteps(t *testing.T) {
	assert.Equal(t, []string{"1s:pause", " 2s:play"}, splitSteps("1s:pause, 2s:play"))
	assert.Equal(t,
		[]string{`1s:{"type":"jumpTo","index":2}`, `2s:{"type":"x,y}"}`},
		splitSteps(`1s:{"type":"jumpTo","index":2},2s:{"type":"x,y}"}`))
}

func TestParseLine(t *testing.T) {
	cmd, err := parseLine("toggle")
	require.NoError(t, err)
	assert.Equal(t, tour.CmdToggle, cmd.Kind)

	cmd, err = parseLine(`{"type":"pause"}`)
	require.NoError(t, err)
	assert.Equal(t, tour.CmdPause, cmd.Kind)
}

func TestSimulateCommand(t *testing.T) {
	out, err := run(t, "simulate", "--tour", romeTour, "--for", "20s")
	require.NoError(t, err)

	assert.Contains(t, out, "Ancient Rome in ten stops")
	assert.Contains(t, out, "flyTo")
	assert.Contains(t, out, "media/colosseum.webp")
	assert.Contains(t, out, "Playing: true")
	assert.Contains(t, out, "simulation finished")
}

func TestSimulateCommand_PauseDuringFlight(t *testing.T) {
	out, err := run(t, "simulate", "--tour", romeTour, "--for", "30s", "--script", "2s:pause")
	require.NoError(t, err)

	assert.Contains(t, out, "stop")
	assert.Contains(t, out, "Playing: false")
	assert.NotContains(t, out, "media/colosseum.webp")
}

func TestSimulateCommand_Stats(t *testing.T) {
	out, err := run(t, "simulate", "--tour", romeTour, "--for", "5s", "--timeline=false", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "PERFORMANCE REPORT")
	assert.NotContains(t, out, "flyTo")
}

func TestSimulateCommand_BadScript(t *testing.T) {
	_, err := run(t, "simulate", "--tour", romeTour, "--script", "1s:dance")
	assert.ErrorIs(t, err, tour.ErrUnknownCommand)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "--tour", romeTour)
	require.NoError(t, err)

	assert.Contains(t, out, "colosseum")
	assert.Contains(t, out, "baths-of-caracalla")
	assert.Contains(t, out, "10 waypoints")
	assert.NotContains(t, out, "parking threshold")
}

func TestValidateCommand_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rome.yaml")

	out, err := run(t, "validate", "--tour", romeTour, "--write", path)
	require.NoError(t, err)
	assert.Contains(t, out, "normalised tour written")

	// The written file is itself a valid tour.
	out, err = run(t, "validate", "--tour", path)
	require.NoError(t, err)
	assert.Contains(t, out, "10 waypoints")
}

func TestShareCommand(t *testing.T) {
	qr := filepath.Join(t.TempDir(), "forum.png")

	out, err := run(t, "share", "forum", "--tour", romeTour, "--base", "https://tours.test/rome", "--qr", qr)
	require.NoError(t, err)
	assert.Equal(t, "https://tours.test/rome?waypoint=1\n", out)

	info, err := os.Stat(qr)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out, err = run(t, "share", "9", "--tour", romeTour, "--base", "https://tours.test/rome")
	require.NoError(t, err)
	assert.Contains(t, out, "waypoint=9")

	_, err = run(t, "share", "atlantis", "--tour", romeTour)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestStartPose(t *testing.T) {
	out, err := run(t, "simulate", "--tour", romeTour, "--for", "1s", "--parked", "42")
	assert.Error(t, err)
	assert.Empty(t, out)
}
