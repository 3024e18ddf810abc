package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// uiMode is the --ui flag of `ember build`.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// progressTarget returns where the build progress view draws, or nil when
// the build runs without it. --quiet and --stdout always win over --ui=on:
// assembly on stdout must not interleave with the view.
func progressTarget(mode uiMode, quiet, toStdout bool) io.Writer {
	if quiet || toStdout || mode == uiModeOff {
		return nil
	}
	if mode == uiModeAuto && !isTerminal(os.Stdout) {
		return nil
	}
	return os.Stdout
}
