package ui

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := Out
	Out = buf
	t.Cleanup(func() { Out = prev })
	return buf
}

func swapIn(t *testing.T, input string) {
	t.Helper()
	prev := In
	In = bufio.NewReader(strings.NewReader(input))
	t.Cleanup(func() { In = prev })
}

func TestStatusLines(t *testing.T) {
	buf := captureOut(t)

	Info("checking %s", "octocat")
	Success("done")
	Fail("broke")
	Warn("careful")

	out := buf.String()
	require.Contains(t, out, "checking octocat")
	require.Contains(t, out, "done")
	require.Contains(t, out, "broke")
	require.Contains(t, out, "careful")
	require.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 4)
}

func TestBlankLine(t *testing.T) {
	buf := captureOut(t)
	BlankLine()
	require.Equal(t, "\n", buf.String())
}

func TestStyleHelpersKeepText(t *testing.T) {
	require.Contains(t, Bold("octocat"), "octocat")
	require.Contains(t, Dim("ghp_token"), "ghp_token")
}

func TestAskString(t *testing.T) {
	captureOut(t)
	swapIn(t, "  octocat  \n")
	require.Equal(t, "octocat", AskString("Repository owner"))
}

func TestAskIntDefaults(t *testing.T) {
	captureOut(t)

	swapIn(t, "\n")
	require.Equal(t, 7, AskInt("Start page", 7))

	swapIn(t, "not-a-number\n")
	require.Equal(t, 7, AskInt("Start page", 7))

	swapIn(t, "42\n")
	require.Equal(t, 42, AskInt("Start page", 7))
}
