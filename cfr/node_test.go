package cfr

import (
	"math"
	"testing"

	"github.com/handsup/hunl-solver/action"
)

func threeActionNode() *Node {
	return NewNode([]action.Action{
		{Type: action.Fold, Amount: 0},
		{Type: action.Call, Amount: 100},
		{Type: action.Bet, Amount: 300},
	})
}

func TestNewNodePanicsOnTooManyActions(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when actions exceed MaxActions")
		}
	}()
	actions := make([]action.Action, MaxActions+1)
	NewNode(actions)
}

func TestCurrentStrategyUniformWhenNoRegret(t *testing.T) {
	n := threeActionNode()
	strat := n.CurrentStrategy(1.0)
	for i := 0; i < n.NumActions(); i++ {
		if math.Abs(strat[i]-1.0/3) > 1e-9 {
			t.Fatalf("expected uniform strategy, got %v", strat[:n.NumActions()])
		}
	}
}

func TestCurrentStrategyFollowsPositiveRegret(t *testing.T) {
	n := threeActionNode()
	n.regrets[0] = 1
	n.regrets[1] = 3
	n.regrets[2] = 0

	strat := n.CurrentStrategy(1.0)
	if math.Abs(strat[0]-0.25) > 1e-9 {
		t.Fatalf("expected strat[0]=0.25, got %v", strat[0])
	}
	if math.Abs(strat[1]-0.75) > 1e-9 {
		t.Fatalf("expected strat[1]=0.75, got %v", strat[1])
	}
	if strat[2] != 0 {
		t.Fatalf("expected strat[2]=0 (no positive regret), got %v", strat[2])
	}
}

func TestCurrentStrategySkipsFirst100VisitsInStrategySum(t *testing.T) {
	n := threeActionNode()
	n.regrets[1] = 1

	for i := 0; i < 100; i++ {
		n.CurrentStrategy(1.0)
	}
	for i := 0; i < n.NumActions(); i++ {
		if n.strategySum[i] != 0 {
			t.Fatalf("expected strategy_sum untouched through the first 100 visits, got %v at %d", n.strategySum[i], i)
		}
	}

	// The 101st visit runs at t=100 and still has weight 0; the 102nd runs
	// at t=101, the first visit whose weight max(0, t-100) is positive.
	n.CurrentStrategy(1.0)
	n.CurrentStrategy(1.0)
	if n.strategySum[1] == 0 {
		t.Fatal("expected strategy_sum to accumulate once t exceeds 100")
	}
}

func TestCurrentStrategyZeroReachDoesNotAdvanceT(t *testing.T) {
	n := threeActionNode()
	before := n.t
	n.CurrentStrategy(0)
	if n.t != before {
		t.Fatalf("expected t unchanged on zero reach probability, got %v -> %v", before, n.t)
	}
}

func TestAddRegretDiscountsPositiveAndNegativeSeparately(t *testing.T) {
	n := threeActionNode()
	n.t = 10

	n.AddRegret(0, 5, 1.5, 0)
	if n.regrets[0] <= 0 {
		t.Fatalf("expected positive discounted regret, got %v", n.regrets[0])
	}
	wantPos := 5 * (math.Pow(10, 1.5) / (math.Pow(10, 1.5) + 1))
	if math.Abs(n.regrets[0]-wantPos) > 1e-9 {
		t.Fatalf("expected positive regret %v, got %v", wantPos, n.regrets[0])
	}

	n.AddRegret(1, -5, 1.5, 0)
	wantNeg := -5 * (math.Pow(10, 0) / (math.Pow(10, 0) + 1))
	if math.Abs(n.regrets[1]-wantNeg) > 1e-9 {
		t.Fatalf("expected negative regret %v, got %v", wantNeg, n.regrets[1])
	}
}

func TestCumulativeStrategyNormalizesAndFallsBackUniform(t *testing.T) {
	n := threeActionNode()
	strat := n.CumulativeStrategy()
	for i := 0; i < n.NumActions(); i++ {
		if math.Abs(strat[i]-1.0/3) > 1e-9 {
			t.Fatalf("expected uniform fallback, got %v", strat[:n.NumActions()])
		}
	}

	n.strategySum[0] = 2
	n.strategySum[1] = 6
	n.strategySum[2] = 2
	strat = n.CumulativeStrategy()
	if math.Abs(strat[0]-0.2) > 1e-9 || math.Abs(strat[1]-0.6) > 1e-9 || math.Abs(strat[2]-0.2) > 1e-9 {
		t.Fatalf("expected normalized [0.2 0.6 0.2], got %v", strat[:n.NumActions()])
	}
}

func TestActionsReturnsOnlyLiveSlots(t *testing.T) {
	n := threeActionNode()
	actions := n.Actions()
	if len(actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(actions))
	}
	if actions[2].Type != action.Bet || actions[2].Amount != 300 {
		t.Fatalf("unexpected action at index 2: %+v", actions[2])
	}
}
