package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Brian-Mwirigi/Jarvis/pkg/journal"
	"github.com/Brian-Mwirigi/Jarvis/pkg/memory"
	"github.com/Brian-Mwirigi/Jarvis/pkg/reminders"
	"github.com/Brian-Mwirigi/Jarvis/pkg/vision"
)

// Config carries the subsystems the built-in tools operate on.
// Nil fields simply leave the corresponding tools out.
type Config struct {
	Memory    *memory.Memory
	Journal   *journal.Journal
	Reminders *reminders.Scheduler
	Vision    vision.Provider
}

// cityZones maps spoken city names to IANA time zones. Covers the cities
// that actually come up; anything else falls back to LoadLocation on a
// best-effort "Continent/City" guess.
var cityZones = map[string]string{
	"nairobi":       "Africa/Nairobi",
	"london":        "Europe/London",
	"paris":         "Europe/Paris",
	"berlin":        "Europe/Berlin",
	"new york":      "America/New_York",
	"los angeles":   "America/Los_Angeles",
	"san francisco": "America/Los_Angeles",
	"chicago":       "America/Chicago",
	"tokyo":         "Asia/Tokyo",
	"sydney":        "Australia/Sydney",
	"dubai":         "Asia/Dubai",
	"mumbai":        "Asia/Kolkata",
	"beijing":       "Asia/Shanghai",
	"johannesburg":  "Africa/Johannesburg",
	"lagos":         "Africa/Lagos",
	"cairo":         "Africa/Cairo",
}

// CurrentTime reports the time, locally or in a named city.
func CurrentTime(city string) (string, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return fmt.Sprintf("It is %s.", time.Now().Format("3:04 PM on Monday, January 2")), nil
	}

	zone, ok := cityZones[city]
	if !ok {
		// Guess "Continent/City" casing for unlisted cities.
		zone = strings.ReplaceAll(titleCase(city), " ", "_")
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", fmt.Errorf("unknown city %q", city)
	}
	return fmt.Sprintf("It is %s in %s.",
		time.Now().In(loc).Format("3:04 PM"), titleCase(city)), nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// All returns every built-in tool wired to the configured subsystems.
func All(cfg Config) []Tool {
	ts := []Tool{
		{
			Name:        "current_time",
			Description: "Get the current time, optionally in a specific city.",
			Parameters: map[string]interface{}{
				"city": map[string]interface{}{
					"type":        "string",
					"description": "City name, e.g. 'Nairobi'. Omit for local time.",
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				return CurrentTime(stringArg(args, "city"))
			},
		},
		{
			Name:        "get_weather",
			Description: "Get the current weather for a city.",
			Parameters: map[string]interface{}{
				"city": map[string]interface{}{
					"type":        "string",
					"description": "City name, e.g. 'Nairobi'.",
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				return Weather(context.Background(), stringArg(args, "city"))
			},
		},
		{
			Name:        "translate_text",
			Description: "Translate text into another language.",
			Parameters: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "The text to translate.",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Target language code, e.g. 'fr' or 'sw'.",
				},
				"from": map[string]interface{}{
					"type":        "string",
					"description": "Source language code. Defaults to 'en'.",
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return Translate(ctx, stringArg(args, "text"),
					stringArg(args, "from"), stringArg(args, "to"))
			},
		},
	}

	ts = append(ts, systemTools()...)

	if cfg.Memory != nil {
		ts = append(ts, memoryTools(cfg.Memory)...)
	}
	if cfg.Journal != nil {
		ts = append(ts, journalTools(cfg.Journal)...)
	}
	if cfg.Reminders != nil {
		ts = append(ts, reminderTools(cfg.Reminders)...)
	}
	if cfg.Vision != nil {
		ts = append(ts, visionTools(cfg.Vision)...)
	}

	return ts
}

func memoryTools(mem *memory.Memory) []Tool {
	return []Tool{
		{
			Name:        "remember_fact",
			Description: "Store a fact the user wants remembered for later.",
			Parameters: map[string]interface{}{
				"fact": map[string]interface{}{
					"type":        "string",
					"description": "The fact to remember.",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Optional category like 'personal' or 'work'.",
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				fact := stringArg(args, "fact")
				if _, err := mem.Remember(fact, stringArg(args, "category")); err != nil {
					return "", err
				}
				return fmt.Sprintf("Remembered: %s", fact), nil
			},
		},
		{
			Name:        "recall_facts",
			Description: "Search previously remembered facts.",
			Parameters: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What to search for.",
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				facts := mem.Recall(stringArg(args, "query"))
				if len(facts) == 0 {
					return "No matching facts found.", nil
				}
				var sb strings.Builder
				for i, f := range facts {
					if i > 0 {
						sb.WriteString(" ")
					}
					sb.WriteString(f.Text)
					if !strings.HasSuffix(f.Text, ".") {
						sb.WriteString(".")
					}
				}
				return sb.String(), nil
			},
		},
	}
}

func journalTools(j *journal.Journal) []Tool {
	return []Tool{
		{
			Name:        "journal_day",
			Description: "Get the current project day number and today's progress.",
			Parameters:  map[string]interface{}{},
			Handler: func(map[string]interface{}) (string, error) {
				return j.Summary(), nil
			},
		},
		{
			Name:        "journal_log",
			Description: "Log an accomplishment to today's journal entry.",
			Parameters: map[string]interface{}{
				"accomplishment": map[string]interface{}{
					"type":        "string",
					"description": "What was accomplished.",
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				text := stringArg(args, "accomplishment")
				if err := j.Log(text); err != nil {
					return "", err
				}
				return fmt.Sprintf("Logged for day %d: %s", j.Day(), text), nil
			},
		},
	}
}

func reminderTools(s *reminders.Scheduler) []Tool {
	return []Tool{
		{
			Name:        "set_reminder",
			Description: "Set a reminder that will be announced after a delay.",
			Parameters: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "What to be reminded about.",
				},
				"minutes": map[string]interface{}{
					"type":        "number",
					"description": "Minutes from now.",
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				minutes := numberArg(args, "minutes")
				r, err := s.Schedule(stringArg(args, "text"),
					time.Duration(minutes*float64(time.Minute)))
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Reminder set for %s.", r.At.Format("3:04 PM")), nil
			},
		},
		{
			Name:        "list_reminders",
			Description: "List pending reminders.",
			Parameters:  map[string]interface{}{},
			Handler: func(map[string]interface{}) (string, error) {
				pending := s.Pending()
				if len(pending) == 0 {
					return "No pending reminders.", nil
				}
				parts := make([]string, len(pending))
				for i, r := range pending {
					parts[i] = fmt.Sprintf("%s at %s", r.Text, r.At.Format("3:04 PM"))
				}
				return strings.Join(parts, "; ") + ".", nil
			},
		},
	}
}

func visionTools(v vision.Provider) []Tool {
	return []Tool{
		{
			Name:        "describe_scene",
			Description: "Look through the camera and answer a question about what is visible.",
			Parameters: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "What to look for or describe.",
				},
			},
			Available: v.Available,
			Handler: func(args map[string]interface{}) (string, error) {
				question := stringArg(args, "question")
				if question == "" {
					question = "Describe what you see."
				}
				ctx, cancel := context.WithTimeout(context.Background(), vision.DefaultTimeout)
				defer cancel()
				return v.Analyze(ctx, question)
			},
		},
	}
}
