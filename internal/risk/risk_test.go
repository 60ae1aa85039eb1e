package risk

import (
	"context"
	"testing"
)

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{0, LevelLow},
		{39, LevelLow},
		{40, LevelMedium},
		{69, LevelMedium},
		{70, LevelHigh},
		{100, LevelHigh},
	}

	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestEngine_NoRulesFire(t *testing.T) {
	result, err := NewEngine().Score(context.Background(), &Request{
		Amount:      100,
		WindowCount: 1,
		WindowTotal: 200,
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("score = %d, want 0", result.Score)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("reasons = %v, want empty", result.Reasons)
	}
	if result.Reasons == nil {
		t.Error("reasons should be an empty slice, not nil")
	}
}

func TestEngine_LargeAmount(t *testing.T) {
	result, err := NewEngine().Score(context.Background(), &Request{Amount: 500})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Score != 30 {
		t.Errorf("score = %d, want 30", result.Score)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "large_amount" {
		t.Errorf("reasons = %v, want [large_amount]", result.Reasons)
	}
}

func TestEngine_HighFrequency(t *testing.T) {
	result, _ := NewEngine().Score(context.Background(), &Request{
		Amount:      10,
		WindowCount: 5,
	})
	if result.Score != 25 {
		t.Errorf("score = %d, want 25", result.Score)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "high_frequency" {
		t.Errorf("reasons = %v, want [high_frequency]", result.Reasons)
	}
}

func TestEngine_HighTotal(t *testing.T) {
	result, _ := NewEngine().Score(context.Background(), &Request{
		Amount:      10,
		WindowTotal: 1000,
	})
	if result.Score != 20 {
		t.Errorf("score = %d, want 20", result.Score)
	}
}

func TestEngine_AllRulesAdditive(t *testing.T) {
	result, _ := NewEngine().Score(context.Background(), &Request{
		Amount:      750,
		WindowCount: 8,
		WindowTotal: 3200,
	})
	if result.Score != 75 {
		t.Errorf("score = %d, want 75", result.Score)
	}
	if len(result.Reasons) != 3 {
		t.Errorf("reasons = %v, want 3 tags", result.Reasons)
	}
}

func TestEngine_ThresholdsInclusive(t *testing.T) {
	// Boundary values fire; one below does not.
	below, _ := NewEngine().Score(context.Background(), &Request{
		Amount:      499.99,
		WindowCount: 4,
		WindowTotal: 999.99,
	})
	if below.Score != 0 {
		t.Errorf("score just below thresholds = %d, want 0", below.Score)
	}

	at, _ := NewEngine().Score(context.Background(), &Request{
		Amount:      500,
		WindowCount: 5,
		WindowTotal: 1000,
	})
	if at.Score != 75 {
		t.Errorf("score at thresholds = %d, want 75", at.Score)
	}
}
