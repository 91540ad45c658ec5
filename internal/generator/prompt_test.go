package generator

import (
	"strings"
	"testing"
)

func TestPlanPromptEmbedsProfileAndVocabulary(t *testing.T) {
	system, user := PlanPrompt("Intermediate", "bike", "Half Ironman")
	if !strings.Contains(system, "JSON") {
		t.Fatalf("system prompt should ask for JSON: %q", system)
	}
	for _, want := range []string{
		"Training Level: Intermediate",
		"Sport Focus: bike",
		"Race Distance: Half Ironman",
		"12-week",
		"swim, bike, run",
		"easy, moderate, hard, interval, recovery",
		"meters",
		"seconds",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestChatPromptAddsStoredProfile(t *testing.T) {
	if got := ChatPrompt("", "", ""); strings.Contains(got, "About the athlete") {
		t.Fatalf("empty profile should leave the prompt bare")
	}
	got := ChatPrompt("Beginner", "swim", "2025-06-01")
	for _, want := range []string{"Training Level: Beginner", "Sport Focus: swim", "Target Race Date: 2025-06-01", "plain text"} {
		if !strings.Contains(got, want) {
			t.Errorf("chat prompt missing %q", want)
		}
	}
}
