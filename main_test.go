package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iburimskiy/particle-portfolio/internal/chat"
	"github.com/iburimskiy/particle-portfolio/internal/config"
	"github.com/iburimskiy/particle-portfolio/internal/i18n"
	"github.com/iburimskiy/particle-portfolio/internal/particles"
	"github.com/iburimskiy/particle-portfolio/internal/profile"
)

func setup(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
	table = i18n.Default()
}

func TestTuningFromConfig(t *testing.T) {
	bc := config.DefaultConfig().Background
	assert.Equal(t, particles.DefaultTuning(), tuningFrom(bc))

	bc = config.BackgroundConfig{MaxParticles: 12, PointerRadius: 80}
	tu := tuningFrom(bc)
	assert.Equal(t, 12, tu.MaxParticles)
	assert.Equal(t, 80.0, tu.PointerRadius)
	assert.Equal(t, config.ConnectDistance, tu.ConnectDistance, "zero fields take the defaults")
}

func TestBenchSeededRunsAreRepeatable(t *testing.T) {
	c := config.DefaultConfig()
	c.Background.Seed = 42

	run := func() benchResult {
		res, err := runBench(benchParams{Frames: 120, Width: 1280, Height: 720, Sweep: true, Options: backgroundOptions(c)})
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, 120, a.Frames)
	assert.Equal(t, 30, a.Particles)
	assert.Equal(t, a.Links, b.Links)

	_, err := runBench(benchParams{Frames: 0, Width: 10, Height: 10})
	assert.Error(t, err)
}

func TestPrintBench(t *testing.T) {
	var buf bytes.Buffer
	printBench(&buf, benchResult{Frames: 10, Particles: 30, Links: 50, Elapsed: 10 * time.Millisecond})
	out := buf.String()
	assert.Contains(t, out, "background bench")
	assert.Contains(t, out, "links/frame")
	assert.Contains(t, out, "1ms")
}

type echoResponder struct{}

func (echoResponder) Reply(_ context.Context, _ string, _ []chat.Message, text string) chat.Message {
	return chat.NewMessage(chat.RoleAssistant, "echo: "+text)
}

func TestChatLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	setup(t)
	tr := table.For("en")
	session := chat.NewSession(echoResponder{}, "en", tr.T("chat.greeting"))
	var replies int
	session.OnReply(func(chat.Message) { replies++ })

	in := strings.NewReader("1\n   \nhello there\n/quit\nnever sent\n")
	var out bytes.Buffer
	require.NoError(t, chatLoop(context.Background(), in, &out, session, tr))

	text := out.String()
	assert.Contains(t, text, "KanaanChat")
	assert.Contains(t, text, "1) Who is Mustafa")
	assert.Contains(t, text, "echo: Who is Mustafa (the software developer behind this site)?")
	assert.Contains(t, text, "echo: hello there")
	assert.NotContains(t, text, "never sent")

	// greeting + two exchanges; the blank line is skipped
	assert.Len(t, session.Messages(), 5)
	assert.Equal(t, 2, replies)
}

func TestChatLoopEndsOnEOFAndCancel(t *testing.T) {
	setup(t)
	tr := table.For("de")
	session := chat.NewSession(echoResponder{}, "de", "")

	var out bytes.Buffer
	require.NoError(t, chatLoop(context.Background(), strings.NewReader(""), &out, session, tr))
	assert.Contains(t, out.String(), "Gehostet auf Raspberry Pi 5")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, chatLoop(ctx, strings.NewReader("hallo\n"), &bytes.Buffer{}, session, tr))
}

func TestCaption(t *testing.T) {
	setup(t)
	cfg.Locale = "de"
	lines := caption(profile.Default().Localized("de"))
	require.Len(t, lines, 4)
	assert.Equal(t, "Mustafa Kanaan", lines[0])
	assert.Equal(t, "Das Geheimnis des Könnens liegt im Wollen.", lines[3])
}

func TestParseInterval(t *testing.T) {
	d, err := parseInterval("33ms")
	require.NoError(t, err)
	assert.Equal(t, 33*time.Millisecond, d)

	_, err = parseInterval("0s")
	assert.Error(t, err)
	_, err = parseInterval("fast")
	assert.Error(t, err)
}

func TestCommandsAreRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"window", "terminal", "serve", "chat", "bench"} {
		assert.Contains(t, names, want)
	}
}
