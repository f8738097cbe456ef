// Package tutor implements TUTOR-8000, the command-driven learning companion.
package tutor

import (
	"fmt"
	"strings"
	"sync"

	"modeltron/internal/logging"
	"modeltron/internal/types"
)

// DefaultStudent is used when START has no name.
const DefaultStudent = "STUDENT"

const helpText = `Available commands:
- START {name}: Begin your learning session
- LEARN {topic}: Start learning about a topic
- PRACTICE {subject}: Begin practice exercises
- STATUS: View your learning progress
- HELP: Display this help message`

const unknownText = `I apologize, but I don't understand that command.
Try 'HELP' for a list of available commands.`

func startText(name string) string {
	return fmt.Sprintf(`Welcome, %s! I am TUTOR-8000, your learning companion.
I am here to assist you in your educational journey.

You can:
1. Ask questions about any topic
2. Upload documents for analysis
3. Practice problem-solving
4. Track your learning progress

What would you like to learn about today?`, name)
}

// Tutor keeps per-session progress.
type Tutor struct {
	mu        sync.Mutex
	student   string
	topics    []string
	practiced []string
}

// New returns a tutor with no active session.
func New() *Tutor {
	return &Tutor{}
}

// Respond answers one command line.
// Commands are matched case-insensitively; arguments keep their case.
func (t *Tutor) Respond(input string) types.Message {
	trimmed := strings.TrimSpace(input)
	upper := strings.ToUpper(trimmed)
	args := strings.Fields(trimmed)

	t.mu.Lock()
	defer t.mu.Unlock()

	var reply string
	switch {
	case strings.HasPrefix(upper, "START"):
		name := DefaultStudent
		if len(args) > 1 {
			name = args[1]
		}
		t.student, t.topics, t.practiced = name, nil, nil
		reply = startText(name)

	case upper == "HELP":
		reply = helpText

	case strings.HasPrefix(upper, "LEARN"):
		topic := strings.Join(args[1:], " ")
		if topic != "" {
			t.topics = append(t.topics, topic)
		}
		reply = fmt.Sprintf("Initiating learning module for: %s\n\nGenerating educational content...\n\nThis is a simulated response. In a real application, this would provide actual educational content about %s.", topic, topic)

	case strings.HasPrefix(upper, "PRACTICE"):
		subject := strings.Join(args[1:], " ")
		if subject == "" {
			reply = "Please name a subject: PRACTICE {subject}"
			break
		}
		t.practiced = append(t.practiced, subject)
		reply = fmt.Sprintf("Practice session for: %s\n\n1. Explain %s in your own words\n2. Work through one example end to end\n3. Identify one common mistake and how to avoid it", subject, subject)

	case upper == "STATUS":
		reply = t.status()

	default:
		reply = unknownText
	}

	logging.SessionDebug("tutor command %q answered (%d chars)", firstWord(upper), len(reply))
	return types.NewMessage(types.RoleAssistant, reply, "")
}

func (t *Tutor) status() string {
	student := t.student
	if student == "" {
		student = DefaultStudent
	}
	list := func(items []string) string {
		if len(items) == 0 {
			return "none"
		}
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("LEARNING PROGRESS: %s\n==================\nTopics started: %d (%s)\nPractice sessions: %d (%s)",
		student, len(t.topics), list(t.topics), len(t.practiced), list(t.practiced))
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
