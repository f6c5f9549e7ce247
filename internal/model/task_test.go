package model

import "testing"

func TestValidStatus(t *testing.T) {
	for _, ok := range []string{StatusTodo, StatusInProgress, StatusCompleted} {
		if !ValidStatus(ok) {
			t.Errorf("ValidStatus(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "done", "Todo", "COMPLETED", "in-progress"} {
		if ValidStatus(bad) {
			t.Errorf("ValidStatus(%q) = true", bad)
		}
	}
}

func TestValidPriority(t *testing.T) {
	for _, ok := range []string{PriorityLow, PriorityMedium, PriorityHigh} {
		if !ValidPriority(ok) {
			t.Errorf("ValidPriority(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "urgent", "Low", "HIGH"} {
		if ValidPriority(bad) {
			t.Errorf("ValidPriority(%q) = true", bad)
		}
	}
}
