package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func Test_Run(t *testing.T) {
	stdout, stderr, err := execute(t,
		"run",
		"--seed", "9",
		"--initial", "200",
		"--changes", "2000",
		"--report-every", "500",
		"--log-format", "json",
	)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "inserts="), stdout)
	require.Contains(t, stderr, `"bench":"treebench"`)
	require.Contains(t, stderr, "workload complete")
}

func Test_Run_Sorted(t *testing.T) {
	stdout, _, err := execute(t,
		"run",
		"--sorted",
		"--initial", "300",
		"--changes", "0",
		"--log-level", "error",
	)
	require.NoError(t, err)
	require.Contains(t, stdout, "size=300 height=300")
}

func Test_Run_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "run", "--delete-fraction", "2")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid workload configuration")
}

func Test_Run_InvalidLogging(t *testing.T) {
	_, _, err := execute(t, "run", "--log-level", "loud")
	require.Error(t, err)

	_, _, err = execute(t, "run", "--log-format", "xml")
	require.Error(t, err)
}

func Test_Version(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, version+"\n", stdout)
}
