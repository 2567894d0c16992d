package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/macromoney/internal/contracts"
)

// parseWeights parses "Equities=20,Bonds=20,..." into a portfolio.
// An empty string yields the default allocation. Sum checks are left to the analyzer.
func parseWeights(s string) (contracts.Portfolio, error) {
	if strings.TrimSpace(s) == "" {
		return contracts.DefaultPortfolio(), nil
	}

	p := contracts.Portfolio{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		asset, value, ok := strings.Cut(part, "=")
		asset = strings.TrimSpace(asset)
		if !ok || asset == "" {
			return nil, fmt.Errorf("invalid weight %q (expected Asset=percent)", part)
		}
		if _, dup := p[asset]; dup {
			return nil, fmt.Errorf("duplicate weight for %s", asset)
		}

		w, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %s: %w", asset, err)
		}
		p[asset] = w
	}

	if len(p) == 0 {
		return nil, fmt.Errorf("no weights in %q", s)
	}
	return p, nil
}
