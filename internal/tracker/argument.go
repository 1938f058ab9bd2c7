package tracker

import (
	"regexp"
	"strconv"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
)

// Request is a parsed code directive argument.
type Request struct {
	Number int
	Before int
	After  int
}

var (
	barePattern   = regexp.MustCompile(`^(\d+)$`)
	beforePattern = regexp.MustCompile(`^(\d+) \((\d+) before\)$`)
	afterPattern  = regexp.MustCompile(`^(\d+) \((\d+) after\)$`)
	aroundPattern = regexp.MustCompile(`^(\d+) \((\d+) before, (\d+) after\)$`)
)

// ParseArgument parses "N", "N (B before)", "N (A after)" or
// "N (B before, A after)". Anything else is a fatal directive error.
func ParseArgument(arg string) (Request, error) {
	var req Request
	var groups []string
	switch {
	case barePattern.MatchString(arg):
		groups = barePattern.FindStringSubmatch(arg)
	case beforePattern.MatchString(arg):
		groups = beforePattern.FindStringSubmatch(arg)
		req.Before = atoi(groups[2])
	case afterPattern.MatchString(arg):
		groups = afterPattern.FindStringSubmatch(arg)
		req.After = atoi(groups[2])
	case aroundPattern.MatchString(arg):
		groups = aroundPattern.FindStringSubmatch(arg)
		req.Before = atoi(groups[2])
		req.After = atoi(groups[3])
	default:
		return Request{}, errors.DirectiveError("malformed code directive argument").
			WithContext("argument", arg).
			Build()
	}
	req.Number = atoi(groups[1])
	return req, nil
}

// atoi is only called on strings the patterns matched as \d+; an overflowing
// value comes back as 0, which resolves as an undefined section.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
