package main

import (
	"runtime"
	"strconv"
	"strings"

	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// parseTarget interprets an execution target string. "local" runs a single
// worker, "local[4]" runs four and "local[*]" uses one worker per CPU.
func parseTarget(target string) (int, error) {
	if target == "local" {
		return 1, nil
	}

	if !strings.HasPrefix(target, "local[") || !strings.HasSuffix(target, "]") {
		return 0, oapErrors.NewValidationError("target", "must be local, local[N] or local[*]", target)
	}

	inner := target[len("local[") : len(target)-1]
	if inner == "*" {
		return runtime.NumCPU(), nil
	}

	n, err := strconv.Atoi(inner)
	if err != nil || n < 1 {
		return 0, oapErrors.NewValidationError("target", "worker count must be a positive integer or *", target)
	}
	return n, nil
}
