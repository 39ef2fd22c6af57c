// Package rising turns trend series into ranked rising keywords.
//
// For a series with first ratio f and last ratio l:
//
//	abs   = l - f
//	pct   = abs / f * 100   (0 when f is 0)
//	score = max(0, pct)*PctWeight + max(0, abs)*AbsWeight
//
// Declining keywords therefore score 0 and sink to the bottom, where ties are
// broken by percentage change and then alphabetically.
package rising
