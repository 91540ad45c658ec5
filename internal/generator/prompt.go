package generator

import (
	"fmt"
	"strings"

	"alcyxob/triplan/internal/domain"
)

// PlanWeeks is the number of weeks requested from the generator.
const PlanWeeks = 12

const planSystemPrompt = "You are an expert triathlon coach. Generate structured training plans in valid JSON format only."

// PlanPrompt builds the system and user messages for a plan request.
func PlanPrompt(trainingLevel, sportFocus, distance string) (system, user string) {
	sports := make([]string, len(domain.Sports))
	for i, s := range domain.Sports {
		sports[i] = string(s)
	}
	intensities := make([]string, len(domain.Intensities))
	for i, in := range domain.Intensities {
		intensities[i] = string(in)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed %d-week triathlon training plan for:\n", PlanWeeks)
	fmt.Fprintf(&b, "- Training Level: %s\n", trainingLevel)
	fmt.Fprintf(&b, "- Sport Focus: %s\n", sportFocus)
	fmt.Fprintf(&b, "- Race Distance: %s\n\n", distance)
	b.WriteString("Return ONLY a JSON object with this exact structure:\n")
	fmt.Fprintf(&b, `{
  "title": "descriptive plan title",
  "weeks": [
    {
      "week": 1,
      "days": [
        {
          "day": 1,
          "sessions": [
            {
              "sport": "%s",
              "distance_m": number_in_meters,
              "duration_s": number_in_seconds,
              "intensity": "%s",
              "notes": "specific workout description"
            }
          ]
        }
      ]
    }
  ]
}
`, strings.Join(sports, "|"), strings.Join(intensities, "|"))
	b.WriteString("\nGuidelines:\n")
	fmt.Fprintf(&b, "- Exactly %d weeks numbered 1 to %d, each with 7 days numbered 1 to 7\n", PlanWeeks, PlanWeeks)
	b.WriteString("- A rest day has an empty sessions array\n")
	fmt.Fprintf(&b, "- sport must be one of: %s\n", strings.Join(sports, ", "))
	fmt.Fprintf(&b, "- intensity must be one of: %s\n", strings.Join(intensities, ", "))
	b.WriteString("- distance_m is a whole number of meters, duration_s a whole number of seconds\n")
	b.WriteString("- Balance swim, bike, run across the plan with progressive overload\n")
	b.WriteString("- Adjust intensity based on training level\n")
	b.WriteString("- Be specific with workout notes\n")

	return planSystemPrompt, b.String()
}

const chatSystemPrompt = `You are a triathlon coaching assistant. You help with training advice and workout planning, nutrition for endurance sport, race day preparation, recovery and injury prevention, equipment and goal setting.
Keep answers encouraging, concise and focused on triathlon and endurance sport. Answer in plain text, not JSON.`

// ChatPrompt returns the assistant's system prompt. When the athlete has a
// stored profile its fields are appended so answers can refer to them.
func ChatPrompt(trainingLevel, sportFocus, raceDate string) string {
	if trainingLevel == "" && sportFocus == "" && raceDate == "" {
		return chatSystemPrompt
	}
	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	b.WriteString("\n\nAbout the athlete:\n")
	if trainingLevel != "" {
		fmt.Fprintf(&b, "- Training Level: %s\n", trainingLevel)
	}
	if sportFocus != "" {
		fmt.Fprintf(&b, "- Sport Focus: %s\n", sportFocus)
	}
	if raceDate != "" {
		fmt.Fprintf(&b, "- Target Race Date: %s\n", raceDate)
	}
	return b.String()
}
