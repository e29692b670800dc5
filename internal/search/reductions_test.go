package search

import "testing"

func TestLMRReductionIsOneAtShallowDepth(t *testing.T) {
	if r := lmrReduction(1, 1); r != 1 {
		t.Errorf("lmrReduction(1, 1) = %d, want 1", r)
	}
}

func TestLMRReductionGrowsWithDepthAndMoveNumber(t *testing.T) {
	small := lmrReduction(4, 4)
	large := lmrReduction(20, 40)
	if large <= small {
		t.Errorf("lmrReduction(20, 40) = %d, want > lmrReduction(4, 4) = %d", large, small)
	}
}

func TestLMRReductionClampsOutOfRangeInputs(t *testing.T) {
	if r := lmrReduction(-5, -5); r != lmrReduction(0, 0) {
		t.Errorf("negative inputs should clamp to the table's first cell, got %d", r)
	}
	if r := lmrReduction(maxPlyCap+10, maxRootMoves+10); r != lmrReduction(maxPlyCap-1, maxRootMoves-1) {
		t.Errorf("oversized inputs should clamp to the table's last cell, got %d", r)
	}
}
