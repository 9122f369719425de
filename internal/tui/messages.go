package tui

import (
	"github.com/Veraticus/taxwise/internal/advisory"
	"github.com/Veraticus/taxwise/internal/credit"
)

// adviceMsg carries the advisory result for the delta it was requested for.
type adviceMsg struct {
	result advisory.Result
	delta  credit.Delta
}
